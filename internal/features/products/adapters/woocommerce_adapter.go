package adapters

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"courier-bridge/internal/core/woocommerce"
	"courier-bridge/internal/features/products/domain"

	"github.com/shopspring/decimal"
)

// WooCommerceAdapter implements ports.ProductStore using the WooCommerce REST API.
type WooCommerceAdapter struct {
	client *woocommerce.Client
}

// NewWooCommerceAdapter creates a new instance of WooCommerceAdapter.
func NewWooCommerceAdapter(client *woocommerce.Client) *WooCommerceAdapter {
	return &WooCommerceAdapter{client: client}
}

// GetProduct returns a product or variation by id.
func (a *WooCommerceAdapter) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var wc wcProduct
	if err := a.client.Get(ctx, "/products/"+url.PathEscape(id), nil, &wc); err != nil {
		if errors.Is(err, woocommerce.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
		}
		return nil, err
	}
	return wc.toDomain(), nil
}

// FindBySKU returns every product and variation carrying sku.
func (a *WooCommerceAdapter) FindBySKU(ctx context.Context, sku string) ([]*domain.Product, error) {
	var found []wcProduct
	if err := a.client.Get(ctx, "/products", url.Values{"sku": {sku}, "per_page": {"100"}}, &found); err != nil {
		return nil, fmt.Errorf("failed to search sku %s: %w", sku, err)
	}

	products := make([]*domain.Product, 0, len(found))
	for _, wc := range found {
		if wc.SKU != sku {
			continue
		}
		products = append(products, wc.toDomain())
	}
	return products, nil
}

// SetStock enables stock management on the product and sets its quantity.
func (a *WooCommerceAdapter) SetStock(ctx context.Context, product *domain.Product, quantity int) error {
	path := "/products/" + url.PathEscape(product.ID)
	if product.IsVariation() {
		path = "/products/" + url.PathEscape(product.ParentID) + "/variations/" + url.PathEscape(product.ID)
	}

	body := wcStockUpdate{ManageStock: true, StockQuantity: quantity}
	if err := a.client.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("failed to set stock of product %s: %w", product.ID, err)
	}
	return nil
}

type wcProduct struct {
	ID            int          `json:"id"`
	ParentID      int          `json:"parent_id"`
	Name          string       `json:"name"`
	SKU           string       `json:"sku"`
	ManageStock   any          `json:"manage_stock"`
	StockQuantity *int         `json:"stock_quantity"`
	Weight        string       `json:"weight"`
	Dimensions    wcDimensions `json:"dimensions"`
	Variations    []int        `json:"variations"`
}

type wcDimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type wcStockUpdate struct {
	ManageStock   bool `json:"manage_stock"`
	StockQuantity int  `json:"stock_quantity"`
}

func (wc wcProduct) toDomain() *domain.Product {
	p := &domain.Product{
		ID:    strconv.Itoa(wc.ID),
		Name:  wc.Name,
		SKU:   strings.TrimSpace(wc.SKU),
		Stock: wc.StockQuantity,
		Dimensions: domain.Dimensions{
			Weight: parseMetric(wc.Weight),
			Length: parseMetric(wc.Dimensions.Length),
			Width:  parseMetric(wc.Dimensions.Width),
			Height: parseMetric(wc.Dimensions.Height),
		},
	}
	if wc.ParentID != 0 {
		p.ParentID = strconv.Itoa(wc.ParentID)
	}
	// Variations report "parent" when they inherit stock management.
	switch v := wc.ManageStock.(type) {
	case bool:
		p.StockManaged = v
	case string:
		p.StockManaged = v == "parent"
	}
	for _, id := range wc.Variations {
		p.Children = append(p.Children, strconv.Itoa(id))
	}
	return p
}

// parseMetric converts a WooCommerce metric string; blank or invalid values are unset.
func parseMetric(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
