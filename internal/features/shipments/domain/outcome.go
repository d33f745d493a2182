package domain

import (
	"strings"

	orders "courier-bridge/internal/features/orders/domain"
)

// Outcome is the local effect of a shipment operation on its order.
type Outcome struct {
	OrderID    string             `json:"order_id"`
	Voucher    string             `json:"voucher"`
	Status     orders.OrderStatus `json:"status"`
	Conclusion Conclusion         `json:"conclusion,omitempty"`
	// Last is the event the conclusion was derived from.
	Last *Event `json:"last_event,omitempty"`
	Note string `json:"note,omitempty"`
}

// OrderStatus maps a conclusion onto the order status it leads to.
func (c Conclusion) OrderStatus() (orders.OrderStatus, bool) {
	switch c {
	case ConclusionNone:
		return orders.OrderStatusProcessing, true
	case ConclusionCompleted:
		return orders.OrderStatusCompleted, true
	case ConclusionCancelled:
		return orders.OrderStatusCancelled, true
	case ConclusionFailed:
		return orders.OrderStatusFailed, true
	default:
		return "", false
	}
}

// MatchesAny reports whether label contains one of keywords. Matching is case sensitive.
func MatchesAny(label string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(label, kw) {
			return true
		}
	}
	return false
}
