package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/woocommerce"
	"courier-bridge/internal/features/orders/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WooCommerceAdapter implements the OrderProvider interface using the WooCommerce REST API.
type WooCommerceAdapter struct {
	client *woocommerce.Client
}

// NewWooCommerceAdapter creates a new instance of WooCommerceAdapter.
func NewWooCommerceAdapter(client *woocommerce.Client) *WooCommerceAdapter {
	return &WooCommerceAdapter{client: client}
}

// GetOrder fetches an order from WooCommerce and maps it to the domain entity.
func (a *WooCommerceAdapter) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var wcOrder woocommerceOrder
	if err := a.client.Get(ctx, "/orders/"+url.PathEscape(orderID), nil, &wcOrder); err != nil {
		if errors.Is(err, woocommerce.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	return mapToDomain(wcOrder), nil
}

// UpdateOrderStatus sets the order status and attaches note when non-empty.
func (a *WooCommerceAdapter) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) error {
	if err := a.client.Put(ctx, "/orders/"+url.PathEscape(orderID), map[string]string{"status": string(status)}, nil); err != nil {
		return fmt.Errorf("failed to set order %s to %s: %w", orderID, status, err)
	}
	if note == "" {
		return nil
	}
	return a.AddOrderNote(ctx, orderID, note)
}

// AddOrderNote appends a private note to the order.
func (a *WooCommerceAdapter) AddOrderNote(ctx context.Context, orderID, note string) error {
	body := wcOrderNote{Note: note, CustomerNote: false}
	if err := a.client.Post(ctx, "/orders/"+url.PathEscape(orderID)+"/notes", body, nil); err != nil {
		return fmt.Errorf("failed to add note to order %s: %w", orderID, err)
	}
	return nil
}

// ListOrderIDs returns the ids of every order in status.
func (a *WooCommerceAdapter) ListOrderIDs(ctx context.Context, status domain.OrderStatus) ([]string, error) {
	query := url.Values{
		"status":  {string(status)},
		"orderby": {"id"},
		"order":   {"asc"},
		"_fields": {"id"},
	}

	var ids []string
	err := a.client.GetAll(ctx, "/orders", query, func(raw json.RawMessage) error {
		var page []struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return fmt.Errorf("failed to decode order list: %w", err)
		}
		for _, o := range page {
			ids = append(ids, strconv.Itoa(o.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// HealthCheck verifies that the WooCommerce API is reachable and credentials are valid.
func (a *WooCommerceAdapter) HealthCheck(ctx context.Context) error {
	return a.client.HealthCheck(ctx)
}

// mapToDomain converts a raw WooCommerce order response into a domain Order entity.
func mapToDomain(wcOrder woocommerceOrder) *domain.Order {
	total, err := decimal.NewFromString(strings.TrimSpace(wcOrder.Total))
	if err != nil {
		logger.Get().Warn("Failed to parse order total", zap.Int("order_id", wcOrder.ID), zap.String("total", wcOrder.Total))
		total = decimal.Zero
	}

	methods := make([]string, 0, len(wcOrder.ShippingLines))
	for _, line := range wcOrder.ShippingLines {
		if title := strings.TrimSpace(line.MethodTitle); title != "" {
			methods = append(methods, title)
		}
	}

	return &domain.Order{
		ID:             strconv.Itoa(wcOrder.ID),
		Status:         domain.OrderStatus(strings.ToLower(wcOrder.Status)),
		Billing:        domain.Address(wcOrder.Billing),
		Shipping:       domain.Address(wcOrder.Shipping),
		PaymentMethod:  wcOrder.PaymentMethod,
		CustomerNote:   wcOrder.CustomerNote,
		ShippingMethod: strings.Join(methods, ", "),
		Total:          total,
		CreatedAt:      time.Time(wcOrder.DateCreated),
		Items:          mapItems(wcOrder.LineItems),
	}
}

// mapItems converts WooCommerce line items to domain OrderItems. Variation lines
// refer to the variation, which carries its own SKU and dimensions.
func mapItems(wcItems []wcLineItem) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(wcItems))

	for _, item := range wcItems {
		productID := item.ProductID
		if item.VariationID != 0 {
			productID = item.VariationID
		}
		items = append(items, domain.OrderItem{
			ProductID: strconv.Itoa(productID),
			Quantity:  item.Quantity,
			SKU:       item.Sku,
			Name:      item.Name,
		})
	}

	return items
}

// internal structs for mapping

// woocommerceOrder represents the JSON structure of an order from WooCommerce API.
type woocommerceOrder struct {
	// ID is the unique order ID.
	ID int `json:"id"`
	// Status is the order status (e.g., pending, processing, completed).
	Status string `json:"status"`
	// DateCreated is the timestamp when the order was created.
	DateCreated wcTime `json:"date_created"`
	// PaymentMethod is the gateway id of the payment method.
	PaymentMethod string `json:"payment_method"`
	// CustomerNote is the note left at checkout.
	CustomerNote string `json:"customer_note"`
	// Total is the order total as a decimal string.
	Total string `json:"total"`
	// Billing holds the billing address details.
	Billing wcAddress `json:"billing"`
	// Shipping holds the shipping address details.
	Shipping wcAddress `json:"shipping"`
	// LineItems contains the products ordered.
	LineItems []wcLineItem `json:"line_items"`
	// ShippingLines contains the chosen shipping methods.
	ShippingLines []wcShippingLine `json:"shipping_lines"`
}

// wcOrderNote represents a note of the WooCommerce order notes endpoint.
type wcOrderNote struct {
	// Note is the note content.
	Note string `json:"note"`
	// CustomerNote indicates if this note is visible to customers.
	CustomerNote bool `json:"customer_note"`
}

// wcAddress holds billing or shipping address information.
type wcAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// wcLineItem represents a product in the WooCommerce order.
type wcLineItem struct {
	// ID is the unique identifier for the line item.
	ID int `json:"id"`
	// ProductID is the ordered product.
	ProductID int `json:"product_id"`
	// VariationID is the ordered variation, 0 for simple products.
	VariationID int `json:"variation_id"`
	// Name is the product name.
	Name string `json:"name"`
	// Sku is the product SKU.
	Sku string `json:"sku"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
}

// wcShippingLine represents a shipping method of the order.
type wcShippingLine struct {
	// MethodID is the shipping method identifier.
	MethodID string `json:"method_id"`
	// MethodTitle is the shipping method display name.
	MethodTitle string `json:"method_title"`
}

// wcTime is a custom helper struct to handle WooCommerce's date format.
type wcTime time.Time

// UnmarshalJSON parses the custom date format used by WooCommerce.
func (t *wcTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		*t = wcTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
	}
	if err != nil {
		logger.Get().Warn("Failed to parse date", zap.String("date", s), zap.Error(err))
		return nil
	}
	*t = wcTime(parsed)
	return nil
}
