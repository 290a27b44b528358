package pipeline

import "github.com/sells-group/moviedb-cli/internal/budget"

// MetascoreRow is a row of metascore_percentile.csv.
type MetascoreRow struct {
	Title     string `json:"title" csv:"title"`
	Metascore int    `json:"metascore" csv:"metascore"`
	Genres    string `json:"genres" csv:"genres"`
}

// RatingRow is a row of imdb_percentile.csv.
type RatingRow struct {
	Title      string  `json:"title" csv:"title"`
	IMDbRating float64 `json:"imdb_rating" csv:"imdb_rating"`
	Genres     string  `json:"genres" csv:"genres"`
}

// BudgetRow is a row of budget_ranking.csv. USD is empty when no conversion
// rate was available.
type BudgetRow struct {
	Title    string `json:"title" csv:"title"`
	Currency string `json:"currency" csv:"currency"`
	Amount   string `json:"amount" csv:"amount"`
	USD      string `json:"usd" csv:"usd"`
}

func newBudgetRow(e budget.Entry) BudgetRow {
	row := BudgetRow{Title: e.Title, Currency: e.Currency, Amount: e.Amount.String()}
	if e.USD.Valid {
		row.USD = e.USD.Decimal.StringFixed(2)
	}
	return row
}
