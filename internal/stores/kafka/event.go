package kafka

import "time"

const (
	TopicOrderCreated = `order-service.order-created`
	TopicOrderPaid    = `order-service.order-paid`
)

// OrderCreatedEvent is produced once per order after a checkout commits.
type OrderCreatedEvent struct {
	OrderID    string             `json:"order_id"`
	SellerID   string             `json:"seller_id"`
	BuyerID    string             `json:"buyer_id"`
	TotalCents int64              `json:"total_cents"`
	Items      []OrderCreatedItem `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

type OrderCreatedItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// OrderPaidEvent is produced when the payment collaborator confirms payment.
type OrderPaidEvent struct {
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}
