package service

import (
	"context"
	"fmt"

	"courier-bridge/internal/core/apperrors"
	orders "courier-bridge/internal/features/orders/domain"
	"courier-bridge/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// FetchStatus returns the normalized status history of the order's voucher, or of
// override when set. An empty locale selects the configured one. Nothing is written.
func (s *ShipmentService) FetchStatus(ctx context.Context, orderID, override, locale string) (*domain.History, error) {
	voucher := override
	if voucher == "" {
		var err error
		if voucher, err = s.requireVoucher(ctx, orderID); err != nil {
			return nil, err
		}
	}
	return s.history(ctx, voucher, locale)
}

// Conclude applies the last event of history to the order. A nil history is fetched
// first. Non final events keep the order processing; final ones complete, cancel or
// fail it, storing a failure note for the latter two.
func (s *ShipmentService) Conclude(ctx context.Context, orderID string, history *domain.History) (*domain.Outcome, error) {
	if history == nil {
		var err error
		if history, err = s.FetchStatus(ctx, orderID, "", ""); err != nil {
			return nil, err
		}
	}
	return s.conclude(ctx, orderID, history)
}

// Sync fetches the order's status history and concludes the order from it.
func (s *ShipmentService) Sync(ctx context.Context, orderID string) (*domain.Outcome, error) {
	return s.Conclude(ctx, orderID, nil)
}

func (s *ShipmentService) conclude(ctx context.Context, orderID string, history *domain.History) (*domain.Outcome, error) {
	last, ok := history.Last()
	if !ok {
		return nil, &apperrors.ValidationError{Field: "voucher", Message: fmt.Sprintf("voucher %s has no status history", history.Voucher)}
	}

	status, ok := last.Conclusion.OrderStatus()
	if !ok {
		return nil, &apperrors.UnsupportedError{Message: fmt.Sprintf("conclusion %q of status %s", last.Conclusion, last.Code)}
	}

	outcome := &domain.Outcome{
		OrderID:    orderID,
		Voucher:    history.Voucher,
		Status:     status,
		Conclusion: last.Conclusion,
		Last:       &last,
	}

	switch last.Conclusion {
	case domain.ConclusionCompleted:
		outcome.Note = fmt.Sprintf("Shipment %s delivered: %s", history.Voucher, last.Description)
	case domain.ConclusionCancelled, domain.ConclusionFailed:
		outcome.Note = domain.FailureNote(history.Events)
		if err := s.orders.SetOrderMeta(ctx, orderID, orders.MetaFailureNote, outcome.Note); err != nil {
			return nil, err
		}
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return outcome, nil
	}

	if err := s.orders.UpdateOrderStatus(ctx, orderID, status, outcome.Note); err != nil {
		return nil, err
	}
	s.logger.Info("Order status updated from shipment",
		zap.String("order_id", orderID),
		zap.String("voucher", history.Voucher),
		zap.String("code", last.Code),
		zap.String("status", string(status)),
	)
	return outcome, nil
}

// history fetches and normalizes the status history of voucher.
func (s *ShipmentService) history(ctx context.Context, voucher, locale string) (*domain.History, error) {
	entries, err := s.courier.StatusHistory(ctx, voucher)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &apperrors.ValidationError{Field: "voucher", Message: fmt.Sprintf("voucher %s is not registered with the courier", voucher)}
	}

	if locale == "" {
		locale = s.locale
	}

	classified := make(map[string]domain.Classification)
	return domain.Normalize(voucher, entries, locale, func(code string) (domain.Classification, error) {
		if c, ok := classified[code]; ok {
			return c, nil
		}
		def, err := s.definitions.Get(ctx, code, false)
		if err != nil {
			return domain.Classification{}, err
		}
		c := domain.Classification{Level: def.Level, Description: def.Description}
		classified[code] = c
		return c, nil
	})
}
