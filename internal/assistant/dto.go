package assistant

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

type QueryDTO struct {
	QueryText string `json:"queryText"`
}

// Answer is the result of a question. Fallback marks a synthesized answer built
// from unparsable model output.
type Answer struct {
	Answer          string          `json:"answer"`
	UsedDataSummary json.RawMessage `json:"usedDataSummary"`
	Fallback        bool            `json:"-"`
}

type ReportCategory struct {
	Category string `json:"category"`
	Amount   Number `json:"amount"`
	Percent  Number `json:"percent"`
}

type Recommendation struct {
	Text             string `json:"text"`
	EstimatedSavings Number `json:"estimated_savings"`
}

type Subscription struct {
	Merchant      string `json:"merchant"`
	MonthlyAmount Number `json:"monthly_amount"`
}

type Report struct {
	Summary         string           `json:"summary"`
	TopCategories   []ReportCategory `json:"top_categories"`
	Recommendations []Recommendation `json:"recommendations"`
	Subscriptions   []Subscription   `json:"subscriptions"`
}

// RecommendationResult holds a parsed Report, valid JSON that does not fit the
// Report shape (Passthrough), or the raw model text.
type RecommendationResult struct {
	Report      *Report
	Passthrough json.RawMessage
	Raw         string
}

func (r RecommendationResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Report != nil:
		return json.Marshal(r.Report)
	case len(r.Passthrough) > 0:
		return r.Passthrough, nil
	}
	return json.Marshal(struct {
		Raw string `json:"raw"`
	}{Raw: r.Raw})
}

// Number is a model-supplied figure. It accepts a JSON number or a string
// holding one, such as "35%", "₹500" or "1,200.50". Anything else decodes
// as an invalid Number and is written back as null.
type Number struct {
	Decimal decimal.Decimal
	Valid   bool
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return n.Decimal.String()
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Decimal.MarshalJSON()
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}

	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		d, err := decimal.NewFromString(string(bytes.TrimSpace(b)))
		if err != nil {
			d = decimal.NewFromFloat(v)
		}
		*n = Number{Decimal: d, Valid: true}
	case string:
		if d, ok := parseLooseNumber(v); ok {
			*n = Number{Decimal: d, Valid: true}
		}
	}
	return nil
}

// parseLooseNumber reads the first signed decimal in s, ignoring currency
// symbols, units and thousands separators.
func parseLooseNumber(s string) (decimal.Decimal, bool) {
	var (
		b       strings.Builder
		started bool
		dot     bool
	)
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if !started && i > 0 && s[i-1] == '-' {
				b.WriteByte('-')
			}
			started = true
			b.WriteRune(r)
		case r == ',' && started:
		case r == '.' && started && !dot:
			dot = true
			b.WriteRune(r)
		case started:
			d, err := decimal.NewFromString(strings.TrimSuffix(b.String(), "."))
			return d, err == nil
		}
	}
	if !started {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(b.String(), "."))
	return d, err == nil
}
