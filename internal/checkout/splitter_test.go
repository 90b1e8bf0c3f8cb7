package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBySeller_GroupsAndTotals(t *testing.T) {
	lines := []ValidatedLine{
		{ProductID: "p1", SellerID: "seller-b", Quantity: 2, UnitPriceCents: 1000, LineTotalCents: 2000, Available: true},
		{ProductID: "p2", SellerID: "seller-a", Quantity: 1, UnitPriceCents: 500, LineTotalCents: 500, Available: true},
		{ProductID: "p3", SellerID: "seller-b", Quantity: 3, UnitPriceCents: 250, LineTotalCents: 750, Available: true},
	}

	groups := SplitBySeller(lines)

	require.Len(t, groups, 2)
	// Ascending seller id order.
	assert.Equal(t, "seller-a", groups[0].SellerID)
	assert.Equal(t, "seller-b", groups[1].SellerID)

	assert.Equal(t, int64(500), groups[0].TotalCents)
	assert.Equal(t, int64(2750), groups[1].TotalCents)
	assert.Len(t, groups[0].Lines, 1)
	assert.Len(t, groups[1].Lines, 2)

	// The group total must equal the sum of its line totals exactly.
	for _, g := range groups {
		var sum int64
		for _, l := range g.Lines {
			sum += l.LineTotalCents
		}
		assert.Equal(t, g.TotalCents, sum)
	}
}

func TestSplitBySeller_Deterministic(t *testing.T) {
	lines := []ValidatedLine{
		{ProductID: "p1", SellerID: "s3", Quantity: 1, UnitPriceCents: 100, LineTotalCents: 100},
		{ProductID: "p2", SellerID: "s1", Quantity: 1, UnitPriceCents: 200, LineTotalCents: 200},
		{ProductID: "p3", SellerID: "s2", Quantity: 1, UnitPriceCents: 300, LineTotalCents: 300},
	}

	first := SplitBySeller(lines)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SplitBySeller(lines))
	}
}

// Two carts holding the same seller's products in opposite orders must still
// produce the same line order, so concurrent checkouts lock product rows in
// one global order.
func TestSplitBySeller_LinesSortedByProduct(t *testing.T) {
	forward := []ValidatedLine{
		{ProductID: "p1", SellerID: "s1", Quantity: 1, UnitPriceCents: 100, LineTotalCents: 100},
		{ProductID: "p2", SellerID: "s1", Quantity: 1, UnitPriceCents: 200, LineTotalCents: 200},
	}
	reversed := []ValidatedLine{forward[1], forward[0]}

	a := SplitBySeller(forward)
	b := SplitBySeller(reversed)

	require.Len(t, a, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, "p1", a[0].Lines[0].ProductID)
	assert.Equal(t, "p2", a[0].Lines[1].ProductID)
}

func TestSplitBySeller_Empty(t *testing.T) {
	assert.Empty(t, SplitBySeller(nil))
	assert.Empty(t, SplitBySeller([]ValidatedLine{}))
}

func TestSplitBySeller_SingleSeller(t *testing.T) {
	lines := []ValidatedLine{
		{ProductID: "p1", SellerID: "s1", Quantity: 4, UnitPriceCents: 125, LineTotalCents: 500},
		{ProductID: "p2", SellerID: "s1", Quantity: 2, UnitPriceCents: 750, LineTotalCents: 1500},
	}

	groups := SplitBySeller(lines)

	require.Len(t, groups, 1)
	assert.Equal(t, int64(2000), groups[0].TotalCents)
	assert.Len(t, groups[0].Lines, 2)
}
