package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

type Conf struct {
	db *sql.DB
}

func NewConf(db *sql.DB) (Conf, error) {
	if db == nil {
		return Conf{}, fmt.Errorf("db is nil")
	}
	return Conf{db: db}, nil
}

// CreateOrderTx inserts an order and its line items inside the caller's
// transaction. The caller owns commit and rollback; an order row is never
// visible without its line items.
func (c *Conf) CreateOrderTx(ctx context.Context, tx *sql.Tx, newOrder NewOrder) (string, error) {
	orderID := uuid.NewString()

	queryOrder := `
		INSERT INTO orders (id, buyer_id, seller_id, total_cents, status, payment_status,
			payment_method, delivery_address, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := tx.ExecContext(ctx, queryOrder, orderID, newOrder.BuyerID, newOrder.SellerID,
		newOrder.TotalCents, StatusPending, PaymentPending, newOrder.PaymentMethod,
		newOrder.DeliveryAddress, newOrder.Notes)
	if err != nil {
		return "", fmt.Errorf("failed to insert order: %w", err)
	}

	queryLine := `
		INSERT INTO order_line_items (order_id, product_id, quantity, unit_price_cents, subtotal_cents)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, line := range newOrder.Lines {
		subtotal := int64(line.Quantity) * line.UnitPriceCents
		_, err := tx.ExecContext(ctx, queryLine, orderID, line.ProductID, line.Quantity,
			line.UnitPriceCents, subtotal)
		if err != nil {
			return "", fmt.Errorf("failed to insert line item for product %s: %w", line.ProductID, err)
		}
	}

	return orderID, nil
}

// GetOrdersByBuyer lists a buyer's orders, newest first.
func (c *Conf) GetOrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	query := `
		SELECT id, buyer_id, seller_id, total_cents, status, payment_status,
			payment_method, delivery_address, notes, created_at, delivered_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`
	return c.queryOrders(ctx, query, buyerID)
}

// GetOrdersBySeller lists a seller's incoming orders, newest first.
func (c *Conf) GetOrdersBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	query := `
		SELECT id, buyer_id, seller_id, total_cents, status, payment_status,
			payment_method, delivery_address, notes, created_at, delivered_at
		FROM orders
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`
	return c.queryOrders(ctx, query, sellerID)
}

// GetOrderByID fetches one order with its line items, scoped to the buyer so
// users cannot read each other's orders.
func (c *Conf) GetOrderByID(ctx context.Context, orderID string, buyerID string) (Order, []LineItem, error) {
	queryOrder := `
		SELECT id, buyer_id, seller_id, total_cents, status, payment_status,
			payment_method, delivery_address, notes, created_at, delivered_at
		FROM orders
		WHERE id = $1 AND buyer_id = $2
	`
	var order Order
	err := c.db.QueryRowContext(ctx, queryOrder, orderID, buyerID).Scan(
		&order.ID, &order.BuyerID, &order.SellerID, &order.TotalCents, &order.Status,
		&order.PaymentStatus, &order.PaymentMethod, &order.DeliveryAddress, &order.Notes,
		&order.CreatedAt, &order.DeliveredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Order{}, nil, ErrOrderNotFound
		}
		return Order{}, nil, fmt.Errorf("failed to query order: %w", err)
	}

	queryLines := `
		SELECT order_id, product_id, quantity, unit_price_cents, subtotal_cents
		FROM order_line_items
		WHERE order_id = $1
	`
	rows, err := c.db.QueryContext(ctx, queryLines, orderID)
	if err != nil {
		return Order{}, nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var line LineItem
		if err := rows.Scan(&line.OrderID, &line.ProductID, &line.Quantity,
			&line.UnitPriceCents, &line.SubtotalCents); err != nil {
			return Order{}, nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return Order{}, nil, fmt.Errorf("error iterating line items: %w", err)
	}

	return order, lines, nil
}

// UpdatePaymentStatus flips an order's payment status; driven by the payment
// webhook, never by checkout itself.
func (c *Conf) UpdatePaymentStatus(ctx context.Context, orderID string, paymentStatus string) error {
	query := `
		UPDATE orders
		SET payment_status = $2
		WHERE id = $1
	`
	result, err := c.db.ExecContext(ctx, query, orderID, paymentStatus)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (c *Conf) queryOrders(ctx context.Context, query string, arg string) ([]Order, error) {
	rows, err := c.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.BuyerID, &order.SellerID, &order.TotalCents,
			&order.Status, &order.PaymentStatus, &order.PaymentMethod, &order.DeliveryAddress,
			&order.Notes, &order.CreatedAt, &order.DeliveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return out, nil
}
