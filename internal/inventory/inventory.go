package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrProductNotFound = errors.New("product not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// GetSnapshot reads the current price, stock and availability of a product.
func (c *Conf) GetSnapshot(ctx context.Context, productID string) (ProductSnapshot, error) {
	query := `
		SELECT id, seller_id, price_cents, stock, available
		FROM products
		WHERE id = $1
	`
	var snap ProductSnapshot
	err := c.db.QueryRowContext(ctx, query, productID).Scan(
		&snap.ProductID, &snap.SellerID, &snap.PriceCents, &snap.Stock, &snap.Available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProductSnapshot{}, ErrProductNotFound
		}
		return ProductSnapshot{}, fmt.Errorf("failed to query product %s: %w", productID, err)
	}
	return snap, nil
}

// GetSnapshots reads every requested product in one query. Products that do
// not exist are simply absent from the result map; callers decide whether a
// missing id is an error.
func (c *Conf) GetSnapshots(ctx context.Context, productIDs []string) (map[string]ProductSnapshot, error) {
	if len(productIDs) == 0 {
		return map[string]ProductSnapshot{}, nil
	}

	query := `
		SELECT id, seller_id, price_cents, stock, available
		FROM products
		WHERE id = ANY($1)
	`
	rows, err := c.db.QueryContext(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	snaps := make(map[string]ProductSnapshot, len(productIDs))
	for rows.Next() {
		var snap ProductSnapshot
		if err := rows.Scan(&snap.ProductID, &snap.SellerID, &snap.PriceCents, &snap.Stock, &snap.Available); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		snaps[snap.ProductID] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return snaps, nil
}

// ConditionalDecrementTx decrements stock inside the caller's transaction,
// but only when enough stock remains. A false result always means
// insufficient stock (the row exists but the guard failed, or a concurrent
// checkout got there first); it is never a no-op success.
func (c *Conf) ConditionalDecrementTx(ctx context.Context, tx *sql.Tx, productID string, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND stock >= $2
	`
	result, err := tx.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock for product %s: %w", productID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected == 1, nil
}
