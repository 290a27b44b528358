package analysis

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/moviedb-cli/internal/model"
)

// ErrMovieNotFound is returned when no movie has the requested title.
var ErrMovieNotFound = eris.New("analysis: movie not found")

// Aka is one alternative title with the region it is used in.
type Aka struct {
	Title  string `json:"title"`
	Region string `json:"region"`
}

// ParseAkas tokenizes an akas field such as
//
//	Fuego contra fuego (Spain), Heat (1995) (France, alternative title)
//
// Entries are separated by a top-level comma that follows a closing
// parenthesis. The region of an entry is the first comma-separated part of
// its last parenthesized group; earlier groups stay in the title. Entries
// without a trailing group or with unbalanced parentheses are skipped.
func ParseAkas(text string) []Aka {
	var akas []Aka
	for _, entry := range splitAkas(text) {
		a, ok := parseAka(entry)
		if !ok {
			zap.L().Debug("analysis: skipping aka entry", zap.String("entry", entry))
			continue
		}
		akas = append(akas, a)
	}
	return akas
}

func splitAkas(text string) []string {
	var (
		entries []string
		depth   int
		start   int
		lastSig rune
	)
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 && lastSig == ')' {
				entries = append(entries, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
		if r != ' ' && r != '\t' {
			lastSig = r
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		entries = append(entries, rest)
	}
	return entries
}

func parseAka(entry string) (Aka, bool) {
	if !strings.HasSuffix(entry, ")") {
		return Aka{}, false
	}

	depth := 0
	open := -1
	for i := len(entry) - 1; i >= 0; i-- {
		switch entry[i] {
		case ')':
			depth++
		case '(':
			depth--
		}
		if depth == 0 {
			open = i
			break
		}
		if depth < 0 {
			return Aka{}, false
		}
	}
	if open < 0 || strings.Count(entry[:open], "(") != strings.Count(entry[:open], ")") {
		return Aka{}, false
	}

	inner := entry[open+1 : len(entry)-1]
	region := strings.TrimSpace(strings.SplitN(inner, ",", 2)[0])
	title := strings.TrimSpace(entry[:open])
	if region == "" || title == "" {
		return Aka{}, false
	}
	return Aka{Title: title, Region: region}, true
}

// AkasByRegion groups the alternative titles of movie by region. The movie
// title is matched exactly after Unicode NFC normalization; the first match
// in dataset order is used.
func AkasByRegion(movies []model.Movie, movie string) (map[string][]string, error) {
	want := norm.NFC.String(strings.TrimSpace(movie))
	for _, m := range movies {
		if norm.NFC.String(m.Title) != want {
			continue
		}
		out := make(map[string][]string)
		for _, a := range ParseAkas(m.Akas) {
			out[a.Region] = append(out[a.Region], a.Title)
		}
		return out, nil
	}
	return nil, eris.Wrapf(ErrMovieNotFound, "%q", movie)
}
