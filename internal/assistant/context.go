package assistant

import (
	"sort"
	"time"

	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/shopspring/decimal"
)

const (
	LookbackMonths           = 6
	MaxTopCategories         = 6
	MaxRecentTransactions    = 50
	MaxRecommendationRecords = 500

	isoTimestampLayout = "2006-01-02T15:04:05.000Z07:00"
	monthKeyLayout     = "2006-01"
)

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ContextTransaction is the minimized projection sent with a question.
// Notes and tags never leave the system on this path.
type ContextTransaction struct {
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Merchant *string         `json:"merchant"`
}

type SixMonthContext struct {
	MonthlyTotals      map[string]decimal.Decimal `json:"monthlyTotals"`
	TopCategories      []CategoryTotal            `json:"topCategories"`
	RecentTransactions []ContextTransaction       `json:"recentTransactions"`
}

// RecommendationTransaction adds the fields needed to spot recurring subscriptions.
type RecommendationTransaction struct {
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category"`
	Merchant  *string         `json:"merchant"`
	Notes     *string         `json:"notes"`
	Tags      []string        `json:"tags"`
	Recurring bool            `json:"recurring"`
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format(isoTimestampLayout)
}

// newestFirst returns a date-descending copy. Equal dates keep input order.
func newestFirst(records []*expense.Expense) []*expense.Expense {
	out := make([]*expense.Expense, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// LookbackStart is the inclusive lower bound of the question context window.
func LookbackStart(now time.Time) time.Time {
	return now.AddDate(0, -LookbackMonths, 0)
}

// BuildSixMonthContext summarizes the records dated on or after six months before now.
// Month keys follow now's location.
func BuildSixMonthContext(records []*expense.Expense, now time.Time) SixMonthContext {
	since := LookbackStart(now)

	ctx := SixMonthContext{
		MonthlyTotals:      make(map[string]decimal.Decimal),
		TopCategories:      []CategoryTotal{},
		RecentTransactions: []ContextTransaction{},
	}

	var (
		inWindow       []*expense.Expense
		categoryOrder  []string
		categoryTotals = make(map[string]decimal.Decimal)
	)

	for _, r := range records {
		if r.Date.Before(since) {
			continue
		}
		inWindow = append(inWindow, r)

		month := r.Date.In(now.Location()).Format(monthKeyLayout)
		ctx.MonthlyTotals[month] = ctx.MonthlyTotals[month].Add(r.Amount)

		cat := r.CategoryLabel()
		if _, seen := categoryTotals[cat]; !seen {
			categoryOrder = append(categoryOrder, cat)
		}
		categoryTotals[cat] = categoryTotals[cat].Add(r.Amount)
	}

	for _, cat := range categoryOrder {
		ctx.TopCategories = append(ctx.TopCategories, CategoryTotal{Category: cat, Amount: categoryTotals[cat]})
	}
	sort.SliceStable(ctx.TopCategories, func(i, j int) bool {
		return ctx.TopCategories[i].Amount.GreaterThan(ctx.TopCategories[j].Amount)
	})
	if len(ctx.TopCategories) > MaxTopCategories {
		ctx.TopCategories = ctx.TopCategories[:MaxTopCategories]
	}

	for _, r := range newestFirst(inWindow) {
		if len(ctx.RecentTransactions) == MaxRecentTransactions {
			break
		}
		ctx.RecentTransactions = append(ctx.RecentTransactions, ContextTransaction{
			Date:     isoTimestamp(r.Date),
			Amount:   r.Amount,
			Category: r.CategoryLabel(),
			Merchant: r.Merchant,
		})
	}

	return ctx
}

// BuildRecommendationContext projects the most recent records regardless of date.
func BuildRecommendationContext(records []*expense.Expense) []RecommendationTransaction {
	sorted := newestFirst(records)
	if len(sorted) > MaxRecommendationRecords {
		sorted = sorted[:MaxRecommendationRecords]
	}

	out := make([]RecommendationTransaction, 0, len(sorted))
	for _, r := range sorted {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, RecommendationTransaction{
			Date:      isoTimestamp(r.Date),
			Amount:    r.Amount,
			Category:  r.CategoryLabel(),
			Merchant:  r.Merchant,
			Notes:     r.Notes,
			Tags:      tags,
			Recurring: r.Recurring,
		})
	}
	return out
}
