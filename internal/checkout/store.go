package checkout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/orders"
)

// PostgresStore implements Store over one database transaction, delegating
// the actual SQL to the inventory and orders packages.
type PostgresStore struct {
	db  *sql.DB
	inv *inventory.Conf
	ord *orders.Conf
}

func NewPostgresStore(db *sql.DB, inv *inventory.Conf, ord *orders.Conf) (*PostgresStore, error) {
	if db == nil || inv == nil || ord == nil {
		return nil, fmt.Errorf("db, inventory and orders are required")
	}
	return &PostgresStore{db: db, inv: inv, ord: ord}, nil
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx OrderTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(&orderTx{tx: tx, store: s}); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback checkout tx: %w", err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit checkout tx: %w", err)
	}
	return nil
}

type orderTx struct {
	tx    *sql.Tx
	store *PostgresStore
}

func (t *orderTx) DecrementStock(ctx context.Context, productID string, quantity int) (bool, error) {
	return t.store.inv.ConditionalDecrementTx(ctx, t.tx, productID, quantity)
}

func (t *orderTx) CreateOrder(ctx context.Context, group OrderGroup) (string, error) {
	newOrder := orders.NewOrder{
		BuyerID:         group.BuyerID,
		SellerID:        group.SellerID,
		TotalCents:      group.TotalCents,
		PaymentMethod:   group.PaymentMethod,
		DeliveryAddress: group.DeliveryAddress,
		Notes:           group.Notes,
	}
	for _, line := range group.Lines {
		newOrder.Lines = append(newOrder.Lines, orders.NewLine{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
		})
	}
	return t.store.ord.CreateOrderTx(ctx, t.tx, newOrder)
}
