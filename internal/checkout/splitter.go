package checkout

import "sort"

// SplitBySeller partitions validated lines into one group per seller. Groups
// come back in ascending seller id order and lines within a group in
// ascending product id order, so every checkout acquires product row locks
// in the same global order regardless of how the cart was filled. Totals are
// integer cents, so the sum of line totals equals the group total exactly.
func SplitBySeller(lines []ValidatedLine) []OrderGroup {
	bySeller := make(map[string]*OrderGroup)
	for _, line := range lines {
		group, ok := bySeller[line.SellerID]
		if !ok {
			group = &OrderGroup{SellerID: line.SellerID}
			bySeller[line.SellerID] = group
		}
		group.Lines = append(group.Lines, line)
		group.TotalCents += line.LineTotalCents
	}

	sellers := make([]string, 0, len(bySeller))
	for seller := range bySeller {
		sellers = append(sellers, seller)
	}
	sort.Strings(sellers)

	groups := make([]OrderGroup, 0, len(sellers))
	for _, seller := range sellers {
		group := *bySeller[seller]
		sort.Slice(group.Lines, func(i, j int) bool {
			return group.Lines[i].ProductID < group.Lines[j].ProductID
		})
		groups = append(groups, group)
	}
	return groups
}
