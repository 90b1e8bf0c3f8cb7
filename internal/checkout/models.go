package checkout

// ValidatedLine is a cart line re-priced and stock-checked against live
// inventory. The unit price always comes from the inventory gateway at
// validation time, never from the cart or the client.
type ValidatedLine struct {
	ProductID      string `json:"product_id"`
	SellerID       string `json:"seller_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
	Available      bool   `json:"available"`
}

// OrderGroup is the subset of a checkout's validated lines belonging to one
// seller, destined to become one order.
type OrderGroup struct {
	SellerID        string
	BuyerID         string
	Lines           []ValidatedLine
	TotalCents      int64
	DeliveryAddress string
	Notes           string
	PaymentMethod   string
}

// Result is the outcome of advisory cart validation. Warnings never block a
// checkout; errors do.
type Result struct {
	Valid    bool            `json:"valid"`
	Empty    bool            `json:"-"`
	Errors   []string        `json:"errors,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
	Lines    []ValidatedLine `json:"lines,omitempty"`
}

// Request is the wire shape of a checkout call. KnownPrices carries the
// prices the client last displayed, so validation can warn about drift;
// CouponCode is accepted for wire compatibility but unused.
type Request struct {
	DeliveryAddress string           `json:"deliveryAddress" validate:"required,min=5"`
	Notes           string           `json:"notes"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=cash_on_delivery bank_transfer card"`
	CouponCode      string           `json:"couponCode"`
	KnownPrices     map[string]int64 `json:"knownPrices"`
}
