package models

import "slices"

// Rank sorts stores in place, best buy-out first. Stores that compare
// equal keep their input order.
func Rank(stores []*Store) {
	slices.SortStableFunc(stores, func(a, b *Store) int {
		return int(a.Compare(b))
	})
}
