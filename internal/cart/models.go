package cart

import "time"

// Line is one (product, quantity) entry in a user's cart.
type Line struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
