package service

import (
	"context"
	"fmt"
	"strings"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/courier"
	"courier-bridge/internal/core/logger"
	orders "courier-bridge/internal/features/orders/domain"
	"courier-bridge/internal/features/shipments/domain"
	"courier-bridge/internal/features/shipments/ports"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShipmentService drives the courier shipment of an order from creation to its
// concluded order status.
type ShipmentService struct {
	orders      ports.OrderStore
	catalog     ports.Catalog
	courier     ports.Courier
	definitions ports.Definitions
	shipping    config.ShippingConfig
	locale      string
	logger      *zap.Logger
}

// NewShipmentService creates a new instance of ShipmentService. locale is the
// default description language of status histories.
func NewShipmentService(
	orderStore ports.OrderStore,
	catalog ports.Catalog,
	remote ports.Courier,
	definitions ports.Definitions,
	shipping config.ShippingConfig,
	locale string,
) *ShipmentService {
	return &ShipmentService{
		orders:      orderStore,
		catalog:     catalog,
		courier:     remote,
		definitions: definitions,
		shipping:    shipping,
		locale:      locale,
		logger:      logger.Named("shipments"),
	}
}

// Create submits the order to the courier, stores the returned voucher and moves
// the order to processing.
func (s *ShipmentService) Create(ctx context.Context, orderID string) (*domain.Outcome, error) {
	log := s.logger.With(zap.String("order_id", orderID))

	current, err := s.orders.GetOrderMeta(ctx, orderID, orders.MetaVoucher)
	if err != nil {
		return nil, fmt.Errorf("failed to read voucher of order %s: %w", orderID, err)
	}
	if current != "" {
		return nil, &apperrors.ValidationError{Field: "voucher", Message: fmt.Sprintf("order #%s already has voucher %s", orderID, current)}
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	req, err := s.buildRequest(ctx, order)
	if err != nil {
		return nil, err
	}

	voucher, err := s.courier.CreateShipment(ctx, req)
	if err != nil {
		log.Error("Courier rejected the shipment", zap.Error(err))
		return nil, err
	}
	log = log.With(zap.String("voucher", voucher))

	if err := s.storeVoucher(ctx, orderID, voucher); err != nil {
		log.Error("Shipment created but the voucher could not be stored", zap.Error(err))
		return nil, err
	}

	note := fmt.Sprintf("Courier shipment created with voucher %s.", voucher)
	if err := s.orders.UpdateOrderStatus(ctx, orderID, orders.OrderStatusProcessing, note); err != nil {
		return nil, err
	}

	log.Info("Shipment created")
	return &domain.Outcome{OrderID: orderID, Voucher: voucher, Status: orders.OrderStatusProcessing, Note: note}, nil
}

// buildRequest derives the shipment request from the order. Only items whose own
// product is synced with the courier are shipped; each of them must carry all
// four metrics.
func (s *ShipmentService) buildRequest(ctx context.Context, order *orders.Order) (courier.ShipmentRequest, error) {
	if missing := missingRecipientFields(order); len(missing) > 0 {
		return courier.ShipmentRequest{}, &apperrors.ValidationError{
			Field:   "recipient",
			Message: "missing " + strings.Join(missing, ", "),
		}
	}

	phone := order.ShippingPhone()
	req := courier.ShipmentRequest{
		RecipientName:    order.Shipping.FullName(),
		RecipientAddress: order.Shipping.Street(),
		RecipientArea:    strings.TrimSpace(order.Shipping.City),
		RecipientPC:      strings.TrimSpace(order.Shipping.Postcode),
		RecipientCountry: strings.TrimSpace(order.Shipping.Country),
		Phone1:           phone,
		Email:            strings.TrimSpace(order.Billing.Email),
		Comments:         strings.TrimSpace(order.CustomerNote),
		OrderID:          order.ID,
		SMS:              s.shipping.SMSNotification,
		Morning:          domain.MatchesAny(order.ShippingMethod, s.shipping.Morning()),
		Saturday:         domain.MatchesAny(order.ShippingMethod, s.shipping.Saturday()),
	}
	if billing := strings.TrimSpace(order.Billing.Phone); billing != phone {
		req.Phone2 = billing
	}
	if order.PaymentMethod == s.shipping.CODMethod {
		req.CashOnDelivery = decimal.NewNullDecimal(order.Total)
	}

	var included int
	for _, item := range order.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return courier.ShipmentRequest{}, fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
		}
		state, err := s.catalog.State(ctx, product.ID)
		if err != nil {
			return courier.ShipmentRequest{}, err
		}
		if !state.IsSynced() {
			s.logger.Debug("Skipping item not synced with the courier",
				zap.String("order_id", order.ID),
				zap.String("product_id", product.ID),
			)
			continue
		}

		dims := product.Dimensions
		if !dims.Complete() {
			return courier.ShipmentRequest{}, &apperrors.ValidationError{
				Field:   "dimensions",
				Message: fmt.Sprintf("product %s (%s) is missing weight or dimensions", product.ID, item.Name),
			}
		}

		sku := product.SKU
		if sku == "" {
			sku = item.SKU
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		req.Weight = req.Weight.Add(dims.Weight.Decimal.Mul(qty))
		req.Length = req.Length.Add(dims.Length.Decimal.Mul(qty))
		req.Width = req.Width.Add(dims.Width.Decimal.Mul(qty))
		req.Height = req.Height.Add(dims.Height.Decimal.Mul(qty))

		if included == 0 {
			req.Product = sku
			req.Pieces = item.Quantity
		} else {
			req.Additional = append(req.Additional, courier.ProductLine{SKU: sku, Quantity: item.Quantity})
		}
		included++
	}

	if included == 0 {
		return courier.ShipmentRequest{}, &apperrors.ValidationError{Field: "items", Message: "no order item is synced with the courier"}
	}
	return req, nil
}

func missingRecipientFields(order *orders.Order) []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("name", order.Shipping.FullName())
	check("address", order.Shipping.Street())
	check("country", order.Shipping.Country)
	check("city", order.Shipping.City)
	check("postcode", order.Shipping.Postcode)
	check("phone", order.ShippingPhone())
	return missing
}

// AssignVoucher attaches a voucher entered by hand. The voucher must not be held by
// another order and must have a status history at the courier. When conclude is
// set the fetched history is used to conclude the order straight away.
func (s *ShipmentService) AssignVoucher(ctx context.Context, orderID, voucher string, conclude bool) (*domain.Outcome, error) {
	voucher = strings.TrimSpace(voucher)
	if voucher == "" {
		return nil, &apperrors.ValidationError{Field: "voucher", Message: "voucher is required"}
	}

	if err := s.ensureUnique(ctx, orderID, voucher); err != nil {
		return nil, err
	}

	history, err := s.history(ctx, voucher, "")
	if err != nil {
		return nil, err
	}

	if err := s.storeVoucher(ctx, orderID, voucher); err != nil {
		return nil, err
	}
	s.logger.Info("Voucher assigned", zap.String("order_id", orderID), zap.String("voucher", voucher))

	if conclude {
		return s.conclude(ctx, orderID, history)
	}
	return &domain.Outcome{OrderID: orderID, Voucher: voucher}, nil
}

// DeleteVoucher removes the stored voucher of the order without contacting the courier.
func (s *ShipmentService) DeleteVoucher(ctx context.Context, orderID string) error {
	if err := s.orders.DeleteOrderMeta(ctx, orderID, orders.MetaVoucher); err != nil {
		return err
	}
	s.logger.Info("Voucher removed", zap.String("order_id", orderID))
	return nil
}

// ensureUnique fails when voucher is held by an order other than orderID.
func (s *ShipmentService) ensureUnique(ctx context.Context, orderID, voucher string) error {
	holders, err := s.orders.FindOrdersByVoucher(ctx, voucher)
	if err != nil {
		return fmt.Errorf("failed to look up voucher %s: %w", voucher, err)
	}

	others := make([]string, 0, len(holders))
	for _, id := range holders {
		if id != orderID {
			others = append(others, id)
		}
	}

	switch len(others) {
	case 0:
		return nil
	case 1:
		return &apperrors.ConflictError{Voucher: voucher, OrderID: others[0]}
	default:
		return &apperrors.UnsupportedError{
			Message: fmt.Sprintf("voucher %s is held by orders %s", voucher, strings.Join(others, ", ")),
		}
	}
}

func (s *ShipmentService) storeVoucher(ctx context.Context, orderID, voucher string) error {
	if err := s.ensureUnique(ctx, orderID, voucher); err != nil {
		return err
	}
	return s.orders.SetOrderMeta(ctx, orderID, orders.MetaVoucher, voucher)
}

// Modify sends a free-text modification request for the order's shipment and
// returns the modification id assigned by the courier.
func (s *ShipmentService) Modify(ctx context.Context, orderID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", &apperrors.ValidationError{Field: "message", Message: "modification message is required"}
	}

	voucher, err := s.requireVoucher(ctx, orderID)
	if err != nil {
		return "", err
	}

	modCode, err := s.courier.ModifyShipment(ctx, voucher, message)
	if err != nil {
		return "", err
	}

	note := fmt.Sprintf("Courier modification requested (id %s): %s", modCode, message)
	if err := s.orders.AddOrderNote(ctx, orderID, note); err != nil {
		return modCode, err
	}
	s.logger.Info("Shipment modification requested",
		zap.String("order_id", orderID),
		zap.String("voucher", voucher),
		zap.String("mod_code", modCode),
	)
	return modCode, nil
}

// Cancel asks the courier to cancel the shipment and cancels the order. A structured
// rejection by the courier still cancels the order locally.
func (s *ShipmentService) Cancel(ctx context.Context, orderID string) (*domain.Outcome, error) {
	voucher, err := s.requireVoucher(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result, err := s.courier.CancelShipment(ctx, voucher)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(zap.String("order_id", orderID), zap.String("voucher", voucher))
	var note string
	if result.Rejection != nil {
		note = fmt.Sprintf("Courier did not confirm the cancellation of voucher %s (%s). Order cancelled locally.", voucher, result.Rejection.Reason())
		log.Warn("Courier rejected the cancellation", zap.Int("code", result.Rejection.Code))
	} else {
		note = fmt.Sprintf("Courier cancellation requested for voucher %s (action id %s).", voucher, result.ActID)
		log.Info("Shipment cancelled", zap.String("act_id", result.ActID))
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, orders.OrderStatusCancelled, note); err != nil {
		return nil, err
	}
	return &domain.Outcome{OrderID: orderID, Voucher: voucher, Status: orders.OrderStatusCancelled, Note: note}, nil
}

func (s *ShipmentService) requireVoucher(ctx context.Context, orderID string) (string, error) {
	voucher, err := s.orders.GetOrderMeta(ctx, orderID, orders.MetaVoucher)
	if err != nil {
		return "", fmt.Errorf("failed to read voucher of order %s: %w", orderID, err)
	}
	if voucher == "" {
		return "", &apperrors.ValidationError{Field: "voucher", Message: fmt.Sprintf("order #%s has no voucher", orderID)}
	}
	return voucher, nil
}
