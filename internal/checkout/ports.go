package checkout

import (
	"context"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
)

// The orchestrator talks to its collaborators through these narrow
// interfaces so tests can substitute deterministic fakes, including ones
// that simulate stock races.

type CartStore interface {
	Get(ctx context.Context, userID string) ([]cart.Line, error)
	Clear(ctx context.Context, userID string) error
}

// SnapshotReader reads all products of a cart in one round trip. Products
// that no longer exist are absent from the map.
type SnapshotReader interface {
	GetSnapshots(ctx context.Context, productIDs []string) (map[string]inventory.ProductSnapshot, error)
}

// OrderTx is the mutating surface available inside one checkout
// transaction. Both calls take effect atomically with the rest of the
// transaction or not at all.
type OrderTx interface {
	// DecrementStock applies the conditional decrement. A false result
	// always means insufficient stock, never a no-op success.
	DecrementStock(ctx context.Context, productID string, quantity int) (bool, error)
	CreateOrder(ctx context.Context, group OrderGroup) (string, error)
}

// Store opens the single durable transaction scope covering an entire
// checkout attempt. fn returning an error rolls everything back.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx OrderTx) error) error
}

// Notifier is told about each committed order. Best effort; failures never
// affect the checkout outcome.
type Notifier interface {
	OrderCreated(ctx context.Context, orderID string, group OrderGroup) error
}
