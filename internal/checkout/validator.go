package checkout

import (
	"context"
	"fmt"
)

// Validate reconciles the user's cart against live inventory and returns a
// re-priced line set together with everything that is wrong with the cart.
// It is advisory: the authoritative stock check is the conditional decrement
// inside the checkout transaction, so a valid result here is not a
// guarantee, only a good-faith snapshot with friendly error messages.
//
// knownPrices maps product ids to the prices the caller last saw; a
// mismatch produces a warning, not an error, and the authoritative current
// price is used.
func (e *Engine) Validate(ctx context.Context, userID string, knownPrices map[string]int64) (Result, error) {
	lines, err := e.cart.Get(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read cart: %w", err)
	}
	if len(lines) == 0 {
		return Result{Valid: false, Empty: true, Errors: []string{"cart is empty"}}, nil
	}

	productIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		productIDs = append(productIDs, line.ProductID)
	}
	snaps, err := e.inv.GetSnapshots(ctx, productIDs)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read products: %w", err)
	}

	var res Result
	for _, line := range lines {
		snap, ok := snaps[line.ProductID]
		if !ok {
			res.Errors = append(res.Errors, fmt.Sprintf("product %s no longer exists", line.ProductID))
			continue
		}

		switch {
		case snap.Stock == 0:
			res.Errors = append(res.Errors, fmt.Sprintf("product %s is out of stock", line.ProductID))
		case snap.Stock < line.Quantity:
			res.Errors = append(res.Errors, fmt.Sprintf("only %d units available for %s", snap.Stock, line.ProductID))
		case !snap.Available:
			res.Errors = append(res.Errors, fmt.Sprintf("product %s is currently unavailable", line.ProductID))
		default:
			if known, ok := knownPrices[line.ProductID]; ok && known != snap.PriceCents {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("price of product %s changed from %d to %d", line.ProductID, known, snap.PriceCents))
			}
			res.Lines = append(res.Lines, ValidatedLine{
				ProductID:      line.ProductID,
				SellerID:       snap.SellerID,
				Quantity:       line.Quantity,
				UnitPriceCents: snap.PriceCents,
				LineTotalCents: int64(line.Quantity) * snap.PriceCents,
				Available:      true,
			})
		}
	}

	res.Valid = len(res.Errors) == 0
	return res, nil
}
