// Package analytics folds a single user's expense records into grouped
// summaries and headline statistics. Every function here is pure and total.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/shopspring/decimal"
)

const (
	DayKeyLayout     = "2006-01-02"
	DayLabelLayout   = "2 Jan 2006"
	MonthKeyLayout   = "2006-01"
	MonthLabelLayout = "Jan 2006"

	TopCategoryPlaceholder = "—"
	UnknownPaymentMethod   = "Unknown"
)

// GroupRow is one bucket of a grouping. Rows are derived per request and never stored.
type GroupRow struct {
	Key   string          `json:"key"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type Totals struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// grouper accumulates rows keyed by string and remembers first-encounter order.
type grouper struct {
	rows  map[string]*GroupRow
	order []string
}

func newGrouper() *grouper {
	return &grouper{rows: make(map[string]*GroupRow)}
}

func (g *grouper) seed(key, label string) {
	if _, ok := g.rows[key]; ok {
		return
	}
	g.rows[key] = &GroupRow{Key: key, Label: label, Total: decimal.Zero}
	g.order = append(g.order, key)
}

func (g *grouper) add(key, label string, amount decimal.Decimal) {
	g.seed(key, label)
	row := g.rows[key]
	row.Total = row.Total.Add(amount)
	row.Count++
}

func (g *grouper) has(key string) bool {
	_, ok := g.rows[key]
	return ok
}

func (g *grouper) inOrder() []GroupRow {
	out := make([]GroupRow, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, *g.rows[k])
	}
	return out
}

func (g *grouper) byKeyDesc() []GroupRow {
	out := g.inOrder()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

// InLocation returns shallow copies of records with dates converted to loc, so
// that day and month keys follow the user's calendar.
func InLocation(records []*expense.Expense, loc *time.Location) []*expense.Expense {
	if loc == nil {
		return records
	}
	out := make([]*expense.Expense, len(records))
	for i, r := range records {
		cp := *r
		cp.Date = r.Date.In(loc)
		out[i] = &cp
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// GroupByDay buckets by calendar day, most recent day first.
func GroupByDay(records []*expense.Expense) []GroupRow {
	g := newGrouper()
	for _, r := range records {
		g.add(r.Date.Format(DayKeyLayout), r.Date.Format(DayLabelLayout), r.Amount)
	}
	return g.byKeyDesc()
}

// GroupByMonth buckets by YYYY-MM, most recent month first. Only months with records appear.
func GroupByMonth(records []*expense.Expense) []GroupRow {
	g := newGrouper()
	for _, r := range records {
		g.add(r.Date.Format(MonthKeyLayout), r.Date.Format(MonthLabelLayout), r.Amount)
	}
	return g.byKeyDesc()
}

// GroupByTrailingMonths returns exactly n rows, oldest first, ending with the
// month of now. Months without activity are zero; records outside the window are not counted.
func GroupByTrailingMonths(records []*expense.Expense, now time.Time, n int) []GroupRow {
	if n <= 0 {
		return []GroupRow{}
	}
	g := newGrouper()
	start := monthStart(now).AddDate(0, -(n - 1), 0)
	for i := 0; i < n; i++ {
		m := start.AddDate(0, i, 0)
		g.seed(m.Format(MonthKeyLayout), m.Format(MonthLabelLayout))
	}
	for _, r := range records {
		d := r.Date.In(now.Location())
		key := d.Format(MonthKeyLayout)
		if g.has(key) {
			g.add(key, d.Format(MonthLabelLayout), r.Amount)
		}
	}
	return g.inOrder()
}

// GroupByCategory buckets by category in first-encounter order. Blank categories are Uncategorized.
func GroupByCategory(records []*expense.Expense) []GroupRow {
	g := newGrouper()
	for _, r := range records {
		label := r.CategoryLabel()
		g.add(label, label, r.Amount)
	}
	return g.inOrder()
}

// PaymentMethodLabel maps a stored payment method onto its display label.
func PaymentMethodLabel(pm *string) string {
	if pm == nil || strings.TrimSpace(*pm) == "" {
		return UnknownPaymentMethod
	}
	switch strings.ToLower(strings.TrimSpace(*pm)) {
	case expense.PaymentMethodCard:
		return "Card"
	case expense.PaymentMethodUPI:
		return "UPI"
	case expense.PaymentMethodCash:
		return "Cash"
	case expense.PaymentMethodWallet:
		return "Wallet"
	default:
		return *pm
	}
}

// GroupByPaymentMethod buckets by display label in first-encounter order.
func GroupByPaymentMethod(records []*expense.Expense) []GroupRow {
	g := newGrouper()
	for _, r := range records {
		label := PaymentMethodLabel(r.PaymentMethod)
		g.add(label, label, r.Amount)
	}
	return g.inOrder()
}

// GroupByDayOfMonth returns one zero-filled row per calendar day of the month, ascending.
// Dates are read in loc.
func GroupByDayOfMonth(records []*expense.Expense, year int, month time.Month, loc *time.Location) []GroupRow {
	if loc == nil {
		loc = time.Local
	}
	g := newGrouper()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		g.seed(d.Format(DayKeyLayout), d.Format(DayLabelLayout))
	}
	for _, r := range records {
		d := r.Date.In(loc)
		key := d.Format(DayKeyLayout)
		if g.has(key) {
			g.add(key, d.Format(DayLabelLayout), r.Amount)
		}
	}
	return g.inOrder()
}

func Summarize(records []*expense.Expense) Totals {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return Totals{Total: total, Count: len(records)}
}
