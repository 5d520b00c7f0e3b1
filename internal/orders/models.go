package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusProcessing is the status every new order starts in. Nothing in this
// service moves an order past it yet.
const StatusProcessing = "Processing"

// CartItem is one entry of the order payload. Name and price are snapshotted
// into order_items so the order survives later product edits.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// NewOrder is the order-creation payload.
type NewOrder struct {
	PaymentMethod   string          `json:"paymentMethod"`
	CartItems       []CartItem      `json:"cartItems"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shippingAddress"`
}

// Order is a persisted order header.
type Order struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	TrackingID      string          `json:"tracking_id"`
	Status          string          `json:"status"`
	OrderDate       time.Time       `json:"order_date"`
}

// OrderItem is a snapshotted line item as the API exposes it: product_id
// surfaces as "id", the snapshot columns as "name" and "price".
type OrderItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// UserOrder is one order of a user's history, dates pre-formatted in SQL.
type UserOrder struct {
	ID              int64           `json:"id"`
	OrderDate       string          `json:"order_date"`
	Status          string          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Total           decimal.Decimal `json:"total"`
	TrackingID      string          `json:"tracking_id"`
	Items           []OrderItem     `json:"items"`
}

// OrderDetails is the single-order view, enriched with the computed
// expected-delivery date (order date + 5 days).
type OrderDetails struct {
	ID               int64           `json:"id"`
	UserID           int64           `json:"user_id"`
	OrderDate        string          `json:"order_date"`
	Status           string          `json:"status"`
	ShippingAddress  string          `json:"shipping_address"`
	PaymentMethod    string          `json:"payment_method"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ShippingCost     decimal.Decimal `json:"shipping_cost"`
	Total            decimal.Decimal `json:"total"`
	TrackingID       string          `json:"tracking_id"`
	ExpectedDelivery string          `json:"expected_delivery"`
	Items            []OrderItem     `json:"items"`
}
