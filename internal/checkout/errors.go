package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCartEmpty means there was nothing to check out.
	ErrCartEmpty = errors.New("cart is empty")

	// ErrInvalidInput means the request shape was rejected before any I/O.
	ErrInvalidInput = errors.New("invalid checkout input")
)

// CartInvalidError carries every validation failure at once so the client
// can highlight all offending lines in a single round trip.
type CartInvalidError struct {
	Errors []string
}

func (e *CartInvalidError) Error() string {
	return "cart validation failed: " + strings.Join(e.Errors, "; ")
}

// StockRaceError means the authoritative decrement failed after advisory
// validation passed: a concurrent checkout took the stock first. Retrying
// the whole checkout is safe; it re-validates against fresh stock.
type StockRaceError struct {
	ProductID string
}

func (e *StockRaceError) Error() string {
	return fmt.Sprintf("stock race lost on product %s", e.ProductID)
}
