package analysis

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// RatingAwards pairs a movie's IMDb rating with the number of entries in its
// awards text.
type RatingAwards struct {
	Title  string  `json:"title" csv:"title"`
	Rating float64 `json:"rating" csv:"rating"`
	Awards int     `json:"awards" csv:"awards"`
}

// RatingVsAwards returns the rating/award-count pairs of movies that have
// both a rating and awards text. The award count is the number of
// comma-separated pieces of the raw text.
func RatingVsAwards(movies []model.Movie) []RatingAwards {
	return lo.FilterMap(movies, func(m model.Movie, _ int) (RatingAwards, bool) {
		if !m.HasValue(model.ColumnIMDbRating) || m.Awards == "" {
			return RatingAwards{}, false
		}
		return RatingAwards{
			Title:  m.Title,
			Rating: m.IMDbRating,
			Awards: len(strings.Split(m.Awards, ",")),
		}, true
	})
}

// Pearson returns the Pearson correlation coefficient of xs and ys. ok is
// false when fewer than two pairs exist or either series is constant.
func Pearson(xs, ys []float64) (r float64, ok bool) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0, false
	}
	xs, ys = xs[:n], ys[:n]

	mx := lo.Sum(xs) / float64(n)
	my := lo.Sum(ys) / float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

// RatingAwardsCorrelation is Pearson over the pairs returned by
// RatingVsAwards.
func RatingAwardsCorrelation(pairs []RatingAwards) (float64, bool) {
	xs := lo.Map(pairs, func(p RatingAwards, _ int) float64 { return p.Rating })
	ys := lo.Map(pairs, func(p RatingAwards, _ int) float64 { return float64(p.Awards) })
	return Pearson(xs, ys)
}
