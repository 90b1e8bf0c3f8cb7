package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrQuantityLimit      = errors.New("quantity exceeds the per-line limit")
	ErrProductUnavailable = errors.New("product is unavailable")
)

// SnapshotReader is the slice of the inventory gateway the cart store needs
// for its advisory stock checks at add/update time. The authoritative check
// happens inside the checkout transaction, not here.
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, productID string) (inventory.ProductSnapshot, error)
}

type Conf struct {
	db         *sql.DB
	inv        SnapshotReader
	maxLineQty int
}

func NewConf(db *sql.DB, inv SnapshotReader, maxLineQty int) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	if inv == nil {
		return Conf{}, fmt.Errorf("inventory reader is nil")
	}
	if maxLineQty <= 0 {
		return Conf{}, fmt.Errorf("maxLineQty must be positive")
	}
	return Conf{db: db, inv: inv, maxLineQty: maxLineQty}, nil
}

// Get returns every line in the user's active cart, most recently added
// first. An empty cart is not an error.
func (c *Conf) Get(ctx context.Context, userID string) ([]Line, error) {
	query := `
		SELECT ci.product_id, ci.quantity, ci.created_at
		FROM cart_items ci
		JOIN cart ca ON ca.id = ci.cart_id
		WHERE ca.user_id = $1 AND ca.status = 'active'
		ORDER BY ci.created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		line := Line{UserID: userID}
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}
	return lines, nil
}

// Add puts quantity units of a product into the user's cart. If the product
// is already there the quantities are summed. The stock check against the
// inventory gateway is advisory; it exists for an early, friendly failure.
func (c *Conf) Add(ctx context.Context, userID string, productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if quantity > c.maxLineQty {
		return fmt.Errorf("%w: requested %d, limit %d", ErrQuantityLimit, quantity, c.maxLineQty)
	}

	snap, err := c.inv.GetSnapshot(ctx, productID)
	if err != nil {
		return err
	}
	if !snap.Available {
		return fmt.Errorf("%w: %s", ErrProductUnavailable, productID)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		queryCartItem := `
			SELECT id, quantity
			FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		var cartItemID int
		var existingQuantity int
		err = tx.QueryRowContext(ctx, queryCartItem, cartID, productID).Scan(&cartItemID, &existingQuantity)

		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to query cart items: %w", err)
			}
			if quantity > snap.Stock {
				return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, quantity, snap.Stock)
			}
			queryAddCartItem := `
				INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
			`
			if _, err := tx.ExecContext(ctx, queryAddCartItem, cartID, productID, quantity); err != nil {
				return fmt.Errorf("failed to add product to cart: %w", err)
			}
			return nil
		}

		newQuantity := existingQuantity + quantity
		if newQuantity > c.maxLineQty {
			return fmt.Errorf("%w: requested %d, limit %d", ErrQuantityLimit, newQuantity, c.maxLineQty)
		}
		if newQuantity > snap.Stock {
			return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, newQuantity, snap.Stock)
		}
		queryUpdateCartItem := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE id = $2
		`
		if _, err := tx.ExecContext(ctx, queryUpdateCartItem, newQuantity, cartItemID); err != nil {
			return fmt.Errorf("failed to update cart item quantity: %w", err)
		}
		return nil
	})
}

// Update overwrites the quantity of a cart line. A quantity of zero or less
// removes the line.
func (c *Conf) Update(ctx context.Context, userID string, productID string, newQuantity int) error {
	if newQuantity <= 0 {
		_, err := c.Remove(ctx, userID, productID)
		return err
	}
	if newQuantity > c.maxLineQty {
		return fmt.Errorf("%w: requested %d, limit %d", ErrQuantityLimit, newQuantity, c.maxLineQty)
	}

	snap, err := c.inv.GetSnapshot(ctx, productID)
	if err != nil {
		return err
	}
	if !snap.Available {
		return fmt.Errorf("%w: %s", ErrProductUnavailable, productID)
	}
	if newQuantity > snap.Stock {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, newQuantity, snap.Stock)
	}

	return c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		query := `
			UPDATE cart_items
			SET quantity = $1, updated_at = NOW()
			WHERE cart_id = $2 AND product_id = $3
		`
		result, err := tx.ExecContext(ctx, query, newQuantity, cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			queryInsert := `
				INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
			`
			if _, err := tx.ExecContext(ctx, queryInsert, cartID, productID, newQuantity); err != nil {
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		}
		return nil
	})
}

// Remove deletes a cart line. Removing a line that does not exist is not an
// error; found reports whether anything was deleted.
func (c *Conf) Remove(ctx context.Context, userID string, productID string) (found bool, err error) {
	err = c.withTx(ctx, func(tx *sql.Tx) error {
		cartID, err := c.activeCartForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		query := `
			DELETE FROM cart_items
			WHERE cart_id = $1 AND product_id = $2
		`
		result, err := tx.ExecContext(ctx, query, cartID, productID)
		if err != nil {
			return fmt.Errorf("failed to delete cart item: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		found = affected > 0
		return nil
	})
	return found, err
}

// Clear deletes every line in the user's active cart. Called after a
// successful checkout or on explicit user action only.
func (c *Conf) Clear(ctx context.Context, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE cart_id IN (
			SELECT id FROM cart WHERE user_id = $1 AND status = 'active'
		)
	`
	if _, err := c.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ExpireStale removes cart lines older than maxAge. Advisory housekeeping;
// it runs from a background sweep and never blocks a checkout.
func (c *Conf) ExpireStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		DELETE FROM cart_items
		WHERE created_at < NOW() - $1::interval
	`
	result, err := c.db.ExecContext(ctx, query, fmt.Sprintf("%f seconds", maxAge.Seconds()))
	if err != nil {
		return 0, fmt.Errorf("failed to expire stale cart items: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return removed, nil
}

// activeCartForUpdate finds or creates the user's active cart and locks its
// row, serializing concurrent mutations of the same user's cart.
func (c *Conf) activeCartForUpdate(ctx context.Context, tx *sql.Tx, userID string) (int, error) {
	var cartID int
	queryActiveCart := `
		SELECT id
		FROM cart
		WHERE user_id = $1 AND status = 'active'
		FOR UPDATE
	`
	err := tx.QueryRowContext(ctx, queryActiveCart, userID).Scan(&cartID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("failed to query active cart: %w", err)
		}
		queryCreateCart := `
			INSERT INTO cart (user_id, status, created_at, updated_at)
			VALUES ($1, 'active', NOW(), NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, queryCreateCart, userID).Scan(&cartID); err != nil {
			return 0, fmt.Errorf("failed to create new cart: %w", err)
		}
	}
	return cartID, nil
}

func (c *Conf) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
