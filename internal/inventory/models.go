package inventory

// ProductSnapshot is a point-in-time read of a product's price and stock.
// It is never cached across a checkout attempt; the conditional decrement
// re-checks stock inside the transaction.
type ProductSnapshot struct {
	ProductID  string `json:"product_id"`
	SellerID   string `json:"seller_id"`
	PriceCents int64  `json:"price_cents"` // Price per unit in the smallest currency unit
	Stock      int    `json:"stock"`
	Available  bool   `json:"available"`
}
