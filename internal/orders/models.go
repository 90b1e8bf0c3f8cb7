package orders

import "time"

// Order statuses. Only StatusPending is set by checkout; the rest belong to
// downstream fulfillment.
const (
	StatusPending       = "pending"
	StatusConfirmed     = "confirmed"
	StatusInPreparation = "in_preparation"
	StatusInTransit     = "in_transit"
	StatusDelivered     = "delivered"
	StatusCanceled      = "canceled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Order represents an order entity in the database. One order belongs to
// exactly one seller; a multi-seller checkout produces several orders.
type Order struct {
	ID              string     `json:"id"`
	BuyerID         string     `json:"buyer_id"`
	SellerID        string     `json:"seller_id"`
	TotalCents      int64      `json:"total_cents"` // Total price in the smallest currency unit
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"payment_status"`
	PaymentMethod   string     `json:"payment_method"`
	DeliveryAddress string     `json:"delivery_address"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"created_at"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
}

// LineItem is the historical record of one product within an order. It keeps
// the price that was charged and never follows later price changes.
type LineItem struct {
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// NewOrder is the persistence shape checkout hands to CreateOrderTx.
type NewOrder struct {
	BuyerID         string
	SellerID        string
	TotalCents      int64
	PaymentMethod   string
	DeliveryAddress string
	Notes           string
	Lines           []NewLine
}

type NewLine struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
}
