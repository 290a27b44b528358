package analysis

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// CountryCount is the country with the most releases in a year.
type CountryCount struct {
	Year    int    `json:"year" csv:"year"`
	Country string `json:"country" csv:"country"`
	Movies  int    `json:"movies" csv:"movies"`
}

// TopCountriesByYear returns, for every known year, the country listed on the
// most movies released that year. Ties resolve to the lexicographically
// smallest country. Rows are ordered by year.
func TopCountriesByYear(movies []model.Movie) []CountryCount {
	byYear := make(map[int]map[string]int)
	for _, m := range movies {
		if !m.HasYear() {
			continue
		}
		countries := model.SplitList(strings.Trim(m.Countries, "()"))
		if len(countries) == 0 {
			continue
		}
		counts, ok := byYear[m.Year]
		if !ok {
			counts = make(map[string]int)
			byYear[m.Year] = counts
		}
		for _, c := range lo.Uniq(countries) {
			counts[c]++
		}
	}

	years := lo.Keys(byYear)
	sort.Ints(years)

	out := make([]CountryCount, 0, len(years))
	for _, y := range years {
		best := CountryCount{Year: y}
		for c, n := range byYear[y] {
			if n > best.Movies || (n == best.Movies && c < best.Country) {
				best.Country, best.Movies = c, n
			}
		}
		out = append(out, best)
	}
	return out
}
