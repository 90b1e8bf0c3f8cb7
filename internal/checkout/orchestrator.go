package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-retry"
)

// Engine is the only component allowed to create orders and mutate stock as
// a result of a cart checkout.
type Engine struct {
	cart     CartStore
	inv      SnapshotReader
	store    Store
	notify   Notifier
	validate *validator.Validate
	timeout  time.Duration
}

func NewEngine(cartStore CartStore, inv SnapshotReader, store Store, notify Notifier, timeout time.Duration) (*Engine, error) {
	if cartStore == nil || inv == nil || store == nil {
		return nil, fmt.Errorf("cart store, inventory reader and tx store are required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		cart:     cartStore,
		inv:      inv,
		store:    store,
		notify:   notify,
		validate: validator.New(),
		timeout:  timeout,
	}, nil
}

// Checkout converts the user's cart into one order per seller, atomically.
// Either every order row, every line item and every stock decrement commits,
// or none of them do; the cart is cleared only after a successful commit.
func (e *Engine) Checkout(ctx context.Context, userID string, req Request) ([]string, error) {
	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Phase one: advisory validation, read-only and retryable.
	res, err := e.Validate(ctx, userID, req.KnownPrices)
	if err != nil {
		return nil, err
	}
	if !res.Valid {
		if res.Empty {
			return nil, ErrCartEmpty
		}
		return nil, &CartInvalidError{Errors: res.Errors}
	}

	groups := SplitBySeller(res.Lines)
	for i := range groups {
		groups[i].BuyerID = userID
		groups[i].DeliveryAddress = req.DeliveryAddress
		groups[i].Notes = req.Notes
		groups[i].PaymentMethod = req.PaymentMethod
	}

	// Phase two: the single mutating section. One transaction covers every
	// group; the conditional decrement inside it is the authoritative stock
	// check, regardless of what phase one saw.
	var orderIDs []string
	err = e.store.WithinTx(ctx, func(tx OrderTx) error {
		for _, group := range groups {
			for _, line := range group.Lines {
				applied, err := tx.DecrementStock(ctx, line.ProductID, line.Quantity)
				if err != nil {
					return fmt.Errorf("failed to decrement stock for product %s: %w", line.ProductID, err)
				}
				if !applied {
					return &StockRaceError{ProductID: line.ProductID}
				}
			}
			orderID, err := tx.CreateOrder(ctx, group)
			if err != nil {
				return fmt.Errorf("failed to create order for seller %s: %w", group.SellerID, err)
			}
			orderIDs = append(orderIDs, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The orders are committed and authoritative from here on. Cart clearing
	// and notifications must not undo them.
	if err := e.cart.Clear(ctx, userID); err != nil {
		slog.Error("cart clear failed after checkout commit, retrying in background",
			slog.String("UserID", userID), slog.String(logkey.ERROR, err.Error()))
		go e.retryClear(userID)
	}

	if e.notify != nil {
		go e.notifyOrders(orderIDs, groups)
	}

	return orderIDs, nil
}

// retryClear keeps trying to clear a cart whose orders already committed.
// The cart is a convenience cache; orders stay regardless.
func (e *Engine) retryClear(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := e.cart.Clear(ctx, userID); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("giving up on cart clear after checkout",
			slog.String("UserID", userID), slog.String(logkey.ERROR, err.Error()))
	}
}

func (e *Engine) notifyOrders(orderIDs []string, groups []OrderGroup) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i, orderID := range orderIDs {
		if err := e.notify.OrderCreated(ctx, orderID, groups[i]); err != nil {
			slog.Error("order created notification failed",
				slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
		}
	}
}
