package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
)

// fakeCart implements CartStore in memory.
type fakeCart struct {
	mu         sync.Mutex
	lines      map[string][]cart.Line
	failClears int // next N Clear calls fail
	cleared    []string
}

func newFakeCart() *fakeCart {
	return &fakeCart{lines: make(map[string][]cart.Line)}
}

func (f *fakeCart) Get(_ context.Context, userID string) ([]cart.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]cart.Line, len(f.lines[userID]))
	copy(out, f.lines[userID])
	return out, nil
}

func (f *fakeCart) Clear(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClears > 0 {
		f.failClears--
		return fmt.Errorf("simulated clear failure")
	}
	delete(f.lines, userID)
	f.cleared = append(f.cleared, userID)
	return nil
}

type productMeta struct {
	sellerID   string
	priceCents int64
	available  bool
}

// fakeInventory derives stock from the fake store so validation sees the
// store's committed state, with an optional per-product override to
// simulate a client validating against stale stock.
type fakeInventory struct {
	store         *fakeStore
	meta          map[string]productMeta
	overrideStock map[string]int
	reads         int
}

func newFakeInventory(store *fakeStore) *fakeInventory {
	return &fakeInventory{
		store:         store,
		meta:          make(map[string]productMeta),
		overrideStock: make(map[string]int),
	}
}

func (f *fakeInventory) GetSnapshots(_ context.Context, productIDs []string) (map[string]inventory.ProductSnapshot, error) {
	f.reads++
	snaps := make(map[string]inventory.ProductSnapshot, len(productIDs))
	for _, productID := range productIDs {
		meta, ok := f.meta[productID]
		if !ok {
			continue
		}
		stock := f.store.stockOf(productID)
		if override, ok := f.overrideStock[productID]; ok {
			stock = override
		}
		snaps[productID] = inventory.ProductSnapshot{
			ProductID:  productID,
			SellerID:   meta.sellerID,
			PriceCents: meta.priceCents,
			Stock:      stock,
			Available:  meta.available,
		}
	}
	return snaps, nil
}

// fakeStore implements Store with copy-on-write transaction semantics:
// changes made inside WithinTx become visible only when fn returns nil.
type fakeStore struct {
	mu              sync.Mutex
	stocks          map[string]int
	committedOrders []OrderGroup
	orderSeq        int
	failCreate      error
}

func newFakeStore(stocks map[string]int) *fakeStore {
	s := &fakeStore{stocks: make(map[string]int)}
	for k, v := range stocks {
		s.stocks[k] = v
	}
	return s
}

func (s *fakeStore) stockOf(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stocks[productID]
}

func (s *fakeStore) WithinTx(_ context.Context, fn func(tx OrderTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]int, len(s.stocks))
	for k, v := range s.stocks {
		staged[k] = v
	}
	tx := &fakeTx{store: s, stocks: staged}

	if err := fn(tx); err != nil {
		return err
	}

	s.stocks = tx.stocks
	s.committedOrders = append(s.committedOrders, tx.orders...)
	return nil
}

type fakeTx struct {
	store  *fakeStore
	stocks map[string]int
	orders []OrderGroup
}

func (t *fakeTx) DecrementStock(_ context.Context, productID string, quantity int) (bool, error) {
	if t.stocks[productID] < quantity {
		return false, nil
	}
	t.stocks[productID] -= quantity
	return true, nil
}

func (t *fakeTx) CreateOrder(_ context.Context, group OrderGroup) (string, error) {
	if t.store.failCreate != nil {
		return "", t.store.failCreate
	}
	t.store.orderSeq++
	t.orders = append(t.orders, group)
	return fmt.Sprintf("order-%d", t.store.orderSeq), nil
}

// fakeNotifier records notifications on a channel so tests can wait for the
// fire-and-forget goroutine.
type fakeNotifier struct {
	events chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan string, 16)}
}

func (f *fakeNotifier) OrderCreated(_ context.Context, orderID string, _ OrderGroup) error {
	f.events <- orderID
	return nil
}
