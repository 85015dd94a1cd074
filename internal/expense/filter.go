package expense

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateOnlyLayout = "2006-01-02"

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime accepts RFC 3339 timestamps, zone-less local timestamps and plain
// YYYY-MM-DD dates. Zone-less values are read in loc.
func ParseTime(value string, loc *time.Location) (t time.Time, dateOnly bool, ok bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, false, true
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, value, loc); err == nil {
		return t, true, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

// FilterSpec holds the raw, unparsed listing constraints as they arrive on the query string.
type FilterSpec struct {
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	Category      string `json:"category,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	MinAmount     string `json:"minAmount,omitempty"`
	MaxAmount     string `json:"maxAmount,omitempty"`
}

func FilterSpecFromQuery(q url.Values) FilterSpec {
	return FilterSpec{
		From:          q.Get("from"),
		To:            q.Get("to"),
		Category:      q.Get("category"),
		PaymentMethod: q.Get("paymentMethod"),
		MinAmount:     q.Get("minAmount"),
		MaxAmount:     q.Get("maxAmount"),
	}
}

// Filter is a parsed FilterSpec. Nil or empty fields are absent constraints.
type Filter struct {
	From          *time.Time
	To            *time.Time
	Category      string
	PaymentMethod string
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
}

// ParseFilter converts raw values into a Filter. A value that does not parse
// drops only its own constraint.
func ParseFilter(spec FilterSpec, loc *time.Location) Filter {
	if loc == nil {
		loc = time.Local
	}

	var f Filter

	if t, _, ok := ParseTime(spec.From, loc); ok {
		f.From = &t
	}
	if t, _, ok := ParseTime(spec.To, loc); ok {
		end := EndOfDay(t.In(loc))
		f.To = &end
	}

	f.Category = strings.ToLower(strings.TrimSpace(spec.Category))

	if pm := NormalizePaymentMethod(&spec.PaymentMethod); pm != nil {
		f.PaymentMethod = *pm
	}

	f.MinAmount = parseAmount(spec.MinAmount)
	f.MaxAmount = parseAmount(spec.MaxAmount)

	return f
}

func parseAmount(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func (f Filter) IsZero() bool {
	return f.From == nil && f.To == nil && f.Category == "" && f.PaymentMethod == "" &&
		f.MinAmount == nil && f.MaxAmount == nil
}

// Match reports whether e satisfies every present constraint.
func (f Filter) Match(e *Expense) bool {
	if f.From != nil && e.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Date.After(*f.To) {
		return false
	}
	if f.Category != "" && !strings.Contains(strings.ToLower(e.Category), f.Category) {
		return false
	}
	if f.PaymentMethod != "" {
		pm := NormalizePaymentMethod(e.PaymentMethod)
		if pm == nil || *pm != f.PaymentMethod {
			return false
		}
	}
	if f.MinAmount != nil && e.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && e.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Apply returns the matching records in input order. The input slice is not modified.
func (f Filter) Apply(records []*Expense) []*Expense {
	out := make([]*Expense, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
