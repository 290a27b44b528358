package model

import "strings"

// Missing is the sentinel stored in numeric fields that have no value.
const Missing = -1

// Column identifies a numeric movie column usable for percentile ranking.
type Column string

const (
	ColumnMetascore  Column = "metascore"
	ColumnIMDbRating Column = "imdb_rating"
)

// Valid reports whether c names a known numeric column.
func (c Column) Valid() bool {
	return c == ColumnMetascore || c == ColumnIMDbRating
}

// Movie is one row of the movie metadata table. Text fields are empty when
// the source cell was empty; numeric fields hold Missing.
type Movie struct {
	IMDbID     string  `json:"imdb_id,omitempty"`
	Title      string  `json:"title"`
	Genres     string  `json:"genres,omitempty"`
	Metascore  int     `json:"metascore"`
	IMDbRating float64 `json:"imdb_rating"`
	Awards     string  `json:"awards,omitempty"`
	Budget     string  `json:"budget,omitempty"`
	Year       int     `json:"year"`
	Countries  string  `json:"countries,omitempty"`
	Akas       string  `json:"akas,omitempty"`
	Directors  string  `json:"directors,omitempty"`
}

// Value returns the numeric value of col for the movie. Unknown columns
// report Missing.
func (m Movie) Value(col Column) float64 {
	switch col {
	case ColumnMetascore:
		return float64(m.Metascore)
	case ColumnIMDbRating:
		return m.IMDbRating
	default:
		return Missing
	}
}

// HasValue reports whether col holds a real value (not the sentinel).
func (m Movie) HasValue(col Column) bool {
	return m.Value(col) != Missing
}

// HasYear reports whether the release year is known.
func (m Movie) HasYear() bool {
	return m.Year != Missing
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty items.
func SplitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
