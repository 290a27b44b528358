package budget

import (
	"slices"

	"github.com/samber/lo"
)

// Direction selects the end of the budget ranking.
type Direction int

const (
	// Highest ranks by descending USD amount.
	Highest Direction = iota
	// Lowest ranks by ascending USD amount.
	Lowest
)

// Rank orders entries by USD amount in the given direction and returns at
// most n of them. Entries with an absent amount always sort last. The sort
// is stable.
func Rank(entries []Entry, dir Direction, n int) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		switch {
		case !a.USD.Valid && !b.USD.Valid:
			return 0
		case !a.USD.Valid:
			return 1
		case !b.USD.Valid:
			return -1
		}
		c := a.USD.Decimal.Cmp(b.USD.Decimal)
		if dir == Highest {
			return -c
		}
		return c
	})

	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Titles returns the titles of entries in order.
func Titles(entries []Entry) []string {
	return lo.Map(entries, func(e Entry, _ int) string { return e.Title })
}
