// Package analysis implements the analytical queries over the movie table.
// Every function treats its input as read-only.
package analysis

import (
	"math"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// ErrInvalidPercentile is returned for a percentile outside 0-100.
var ErrInvalidPercentile = eris.New("analysis: percentile must be within 0-100")

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between order statistics at position p/100*(count-1).
// It returns NaN for an empty input.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	pos := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// RankByPercentile returns movies of genre whose col value lies in the top
// (value >= P(100-n)) or bottom (value <= P(n)) n percent. Genre matching is
// case-sensitive substring containment; movies without genres or without a
// value for col are excluded before any statistic is computed. Boundary
// values are included. Results keep dataset order.
func RankByPercentile(movies []model.Movie, col model.Column, genre string, n int, top bool) ([]model.Movie, error) {
	if n < 0 || n > 100 {
		return nil, eris.Wrapf(ErrInvalidPercentile, "got %d", n)
	}
	if !col.Valid() {
		return nil, eris.Errorf("analysis: unknown column %q", col)
	}

	candidates := lo.Filter(movies, func(m model.Movie, _ int) bool {
		return m.Genres != "" && strings.Contains(m.Genres, genre) && m.HasValue(col)
	})
	if len(candidates) == 0 {
		return []model.Movie{}, nil
	}

	values := lo.Map(candidates, func(m model.Movie, _ int) float64 { return m.Value(col) })

	if top {
		cutoff := Percentile(values, float64(100-n))
		return lo.Filter(candidates, func(m model.Movie, _ int) bool { return m.Value(col) >= cutoff }), nil
	}
	cutoff := Percentile(values, float64(n))
	return lo.Filter(candidates, func(m model.Movie, _ int) bool { return m.Value(col) <= cutoff }), nil
}
