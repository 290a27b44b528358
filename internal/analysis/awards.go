package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// ErrNoOscarDirectors is returned when no Oscar-winning movie lists a director.
var ErrNoOscarDirectors = eris.New("analysis: no oscar winning movies with directors")

// OscarMovies returns the titles whose awards text contains "Oscar <year>".
func OscarMovies(movies []model.Movie, year int) []string {
	needle := fmt.Sprintf("Oscar %d", year)
	return lo.FilterMap(movies, func(m model.Movie, _ int) (string, bool) {
		return m.Title, m.Awards != "" && m.Awards != "False" && strings.Contains(m.Awards, needle)
	})
}

// DirectorCount is the number of Oscar-winning movies of one director.
type DirectorCount struct {
	Director string `json:"director" csv:"director"`
	Movies   int    `json:"movies" csv:"movies"`
}

// DirectorOscarCounts counts, per director, the movies whose awards mention an
// Oscar. Only movies with a title, awards and directors are considered. The
// result is ordered by count descending, then director name.
func DirectorOscarCounts(movies []model.Movie) []DirectorCount {
	counts := make(map[string]int)
	for _, m := range movies {
		if m.Title == "" || m.Awards == "" || m.Directors == "" || !strings.Contains(m.Awards, "Oscar") {
			continue
		}
		for _, d := range model.SplitList(m.Directors) {
			counts[d]++
		}
	}

	out := lo.MapToSlice(counts, func(d string, n int) DirectorCount {
		return DirectorCount{Director: d, Movies: n}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Movies != out[j].Movies {
			return out[i].Movies > out[j].Movies
		}
		return out[i].Director < out[j].Director
	})
	return out
}

// TopDirector returns the director with the most Oscar-winning movies. Ties
// resolve to the lexicographically smallest name.
func TopDirector(movies []model.Movie) (DirectorCount, error) {
	counts := DirectorOscarCounts(movies)
	if len(counts) == 0 {
		return DirectorCount{}, ErrNoOscarDirectors
	}
	return counts[0], nil
}
