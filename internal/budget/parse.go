// Package budget parses free-text movie budgets, normalizes them to USD and
// ranks movies by the result.
package budget

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/sells-group/moviedb-cli/internal/currency"
)

var (
	// ErrNoBudget marks an absent budget or the literal "False" marker.
	ErrNoBudget = eris.New("budget: no budget")
	// ErrNoMatch marks budget text that is not a currency followed by an amount.
	ErrNoMatch = eris.New("budget: unrecognized budget text")
	// ErrMalformedAmount marks an amount that matched but is not a number.
	ErrMalformedAmount = eris.New("budget: malformed amount")
)

var budgetPattern = regexp.MustCompile(`^(\D+)(\d[\d,.]*)`)

// Parsed is a budget split into currency code and amount.
type Parsed struct {
	Currency string
	Amount   decimal.Decimal
}

// Parse extracts the currency code and amount from raw budget text such as
// "$20,000,000 (estimated)" or "EUR1.500.000".
func Parse(raw string) (Parsed, error) {
	text := strings.TrimSpace(raw)
	if text == "" || text == "False" {
		return Parsed{}, ErrNoBudget
	}

	if strings.HasPrefix(text, "$") {
		text = currency.USD + strings.TrimPrefix(text, "$")
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "(estimated)", ""))

	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return Parsed{}, eris.Wrapf(ErrNoMatch, "%q", raw)
	}
	code := currency.Code(m[1])
	if code == "" {
		return Parsed{}, eris.Wrapf(ErrNoMatch, "%q", raw)
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return Parsed{}, eris.Wrapf(ErrMalformedAmount, "%q", raw)
	}

	return Parsed{Currency: code, Amount: amount}, nil
}
