package analysis

import (
	"slices"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// ErrInvalidFlag is returned for a year flag outside {-1, 0, 1}.
var ErrInvalidFlag = eris.New("analysis: invalid year flag")

// Year flags for MoviesByYear.
const (
	FlagBefore = -1
	FlagOn     = 0
	FlagAfter  = 1
)

// MoviesByYear returns titles released on (flag 0), after (flag 1) or before
// (flag -1) year, ordered by release year. Movies without a year are
// excluded.
func MoviesByYear(movies []model.Movie, year, flag int) ([]string, error) {
	var keep func(int) bool
	switch flag {
	case FlagOn:
		keep = func(y int) bool { return y == year }
	case FlagAfter:
		keep = func(y int) bool { return y > year }
	case FlagBefore:
		keep = func(y int) bool { return y < year }
	default:
		return nil, eris.Wrapf(ErrInvalidFlag, "got %d", flag)
	}

	dated := lo.Filter(movies, func(m model.Movie, _ int) bool { return m.HasYear() && keep(m.Year) })
	slices.SortStableFunc(dated, func(a, b model.Movie) int { return a.Year - b.Year })

	return lo.Map(dated, func(m model.Movie, _ int) string { return m.Title }), nil
}
