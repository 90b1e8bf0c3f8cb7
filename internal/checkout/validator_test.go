package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, cartStore *fakeCart, store *fakeStore, inv *fakeInventory) *Engine {
	t.Helper()
	engine, err := NewEngine(cartStore, inv, store, nil, 5*time.Second)
	require.NoError(t, err)
	return engine
}

func TestValidate_EmptyCart(t *testing.T) {
	store := newFakeStore(nil)
	engine := newTestEngine(t, newFakeCart(), store, newFakeInventory(store))

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.Empty)
	assert.Contains(t, res.Errors, "cart is empty")
	assert.Empty(t, res.Lines)
}

func TestValidate_MissingProduct(t *testing.T) {
	store := newFakeStore(nil)
	inv := newFakeInventory(store)
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{{UserID: "user-1", ProductID: "ghost", Quantity: 1}}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "ghost")
	assert.Empty(t, res.Lines)
}

func TestValidate_OutOfStock(t *testing.T) {
	store := newFakeStore(map[string]int{"p1": 0})
	inv := newFakeInventory(store)
	inv.meta["p1"] = productMeta{sellerID: "s1", priceCents: 1000, available: true}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{{UserID: "user-1", ProductID: "p1", Quantity: 2}}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "out of stock")
	assert.Empty(t, res.Lines)
}

func TestValidate_PartialStock(t *testing.T) {
	store := newFakeStore(map[string]int{"p1": 3})
	inv := newFakeInventory(store)
	inv.meta["p1"] = productMeta{sellerID: "s1", priceCents: 1000, available: true}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{{UserID: "user-1", ProductID: "p1", Quantity: 5}}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "only 3 units available for p1", res.Errors[0])
	assert.Empty(t, res.Lines)
}

func TestValidate_Unavailable(t *testing.T) {
	store := newFakeStore(map[string]int{"p1": 10})
	inv := newFakeInventory(store)
	inv.meta["p1"] = productMeta{sellerID: "s1", priceCents: 1000, available: false}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{{UserID: "user-1", ProductID: "p1", Quantity: 1}}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "unavailable")
}

func TestValidate_PriceDriftIsWarningOnly(t *testing.T) {
	store := newFakeStore(map[string]int{"p1": 10})
	inv := newFakeInventory(store)
	inv.meta["p1"] = productMeta{sellerID: "s1", priceCents: 1200, available: true}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{{UserID: "user-1", ProductID: "p1", Quantity: 2}}
	engine := newTestEngine(t, cartStore, store, inv)

	// The client last saw 1000; the live price is 1200.
	res, err := engine.Validate(context.Background(), "user-1", map[string]int64{"p1": 1000})

	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "changed from 1000 to 1200")
	require.Len(t, res.Lines, 1)
	// The authoritative live price is used, never the client's.
	assert.Equal(t, int64(1200), res.Lines[0].UnitPriceCents)
	assert.Equal(t, int64(2400), res.Lines[0].LineTotalCents)
}

func TestValidate_ReadsInventoryInOneBatch(t *testing.T) {
	store := newFakeStore(map[string]int{"p1": 5, "p2": 5, "p3": 5})
	inv := newFakeInventory(store)
	inv.meta["p1"] = productMeta{sellerID: "s1", priceCents: 100, available: true}
	inv.meta["p2"] = productMeta{sellerID: "s1", priceCents: 200, available: true}
	inv.meta["p3"] = productMeta{sellerID: "s2", priceCents: 300, available: true}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{
		{UserID: "user-1", ProductID: "p1", Quantity: 1},
		{UserID: "user-1", ProductID: "p2", Quantity: 1},
		{UserID: "user-1", ProductID: "p3", Quantity: 1},
	}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Len(t, res.Lines, 3)
	// One round trip regardless of cart size.
	assert.Equal(t, 1, inv.reads)
}

func TestValidate_MixedCartCollectsAllErrors(t *testing.T) {
	store := newFakeStore(map[string]int{"ok": 5, "empty": 0})
	inv := newFakeInventory(store)
	inv.meta["ok"] = productMeta{sellerID: "s1", priceCents: 300, available: true}
	inv.meta["empty"] = productMeta{sellerID: "s2", priceCents: 400, available: true}
	cartStore := newFakeCart()
	cartStore.lines["user-1"] = []cart.Line{
		{UserID: "user-1", ProductID: "ok", Quantity: 2},
		{UserID: "user-1", ProductID: "empty", Quantity: 1},
		{UserID: "user-1", ProductID: "ghost", Quantity: 1},
	}
	engine := newTestEngine(t, cartStore, store, inv)

	res, err := engine.Validate(context.Background(), "user-1", nil)

	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
	// The healthy line still comes back re-priced.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "ok", res.Lines[0].ProductID)
	assert.Equal(t, int64(600), res.Lines[0].LineTotalCents)
}
