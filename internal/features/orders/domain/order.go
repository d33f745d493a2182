package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when the store has no order with the requested id.
var ErrOrderNotFound = errors.New("order not found")

// OrderStatus is the WooCommerce order status.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusOnHold     OrderStatus = "on-hold"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
	OrderStatusFailed     OrderStatus = "failed"
	OrderStatusDraft      OrderStatus = "checkout-draft"
	OrderStatusTrash      OrderStatus = "trash"
)

// Order metadata keys owned by the courier integration.
const (
	// MetaVoucher holds the courier voucher of the order's shipment.
	MetaVoucher = "_courier_voucher"
	// MetaFailureNote holds the delivery failure note of a cancelled or failed shipment.
	MetaFailureNote = "_courier_failure_note"
)

// Address is a billing or shipping address.
type Address struct {
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

// FullName joins the first and last name.
func (a Address) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// Street joins both address lines.
func (a Address) Street() string {
	return strings.TrimSpace(strings.TrimSpace(a.Address1) + " " + strings.TrimSpace(a.Address2))
}

// Order represents a store order.
type Order struct {
	// ID is the store order id.
	ID string `json:"order_id"`
	// Status is the current store status.
	Status OrderStatus `json:"status"`
	// Billing is the billing address, the source of the email and the fallback phone.
	Billing Address `json:"billing"`
	// Shipping is the delivery address.
	Shipping Address `json:"shipping"`
	// PaymentMethod is the payment gateway id (e.g. "cod").
	PaymentMethod string `json:"payment_method"`
	// CustomerNote is the note left by the customer at checkout.
	CustomerNote string `json:"customer_note"`
	// ShippingMethod is the label of the chosen shipping method(s).
	ShippingMethod string `json:"shipping_method"`
	// Total is the order total in the store currency.
	Total decimal.Decimal `json:"total"`
	// CreatedAt is the timestamp when the order was created.
	CreatedAt time.Time `json:"create_date"`
	// Items contains the ordered products.
	Items []OrderItem `json:"items"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	// ProductID is the product (or variation) the line refers to.
	ProductID string `json:"product_id"`
	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`
	// SKU is the Stock Keeping Unit identifier for the product.
	SKU string `json:"sku"`
	// Name is the descriptive name of the product.
	Name string `json:"name"`
}

// ShippingPhone returns the shipping phone, falling back to the billing phone.
func (o *Order) ShippingPhone() string {
	if phone := strings.TrimSpace(o.Shipping.Phone); phone != "" {
		return phone
	}
	return strings.TrimSpace(o.Billing.Phone)
}
