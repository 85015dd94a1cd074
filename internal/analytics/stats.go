package analytics

import (
	"time"

	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/shopspring/decimal"
)

type DashboardStats struct {
	TodayTotal       decimal.Decimal `json:"todayTotal"`
	MonthTotal       decimal.Decimal `json:"monthTotal"`
	LastMonthTotal   decimal.Decimal `json:"lastMonthTotal"`
	AvgPerTxn        decimal.Decimal `json:"avgPerTxn"`
	TopCategoryName  string          `json:"topCategoryName"`
	TopCategoryValue decimal.Decimal `json:"topCategoryValue"`
	Trend            *float64        `json:"trend"`
}

// ComputeDashboardStats derives the headline numbers from a user's full record
// set. Calendar boundaries follow now's location.
//
// AvgPerTxn divides the current month's total by the number of all records,
// not just this month's.
func ComputeDashboardStats(records []*expense.Expense, now time.Time) DashboardStats {
	loc := now.Location()
	todayKey := now.Format(DayKeyLayout)
	thisMonthKey := now.Format(MonthKeyLayout)
	lastMonthKey := monthStart(now).AddDate(0, -1, 0).Format(MonthKeyLayout)

	stats := DashboardStats{
		TodayTotal:       decimal.Zero,
		MonthTotal:       decimal.Zero,
		LastMonthTotal:   decimal.Zero,
		AvgPerTxn:        decimal.Zero,
		TopCategoryName:  TopCategoryPlaceholder,
		TopCategoryValue: decimal.Zero,
	}

	categories := newGrouper()
	for _, r := range records {
		d := r.Date.In(loc)
		if d.Format(DayKeyLayout) == todayKey {
			stats.TodayTotal = stats.TodayTotal.Add(r.Amount)
		}
		switch d.Format(MonthKeyLayout) {
		case thisMonthKey:
			stats.MonthTotal = stats.MonthTotal.Add(r.Amount)
		case lastMonthKey:
			stats.LastMonthTotal = stats.LastMonthTotal.Add(r.Amount)
		}
		label := r.CategoryLabel()
		categories.add(label, label, r.Amount)
	}

	// strict comparison keeps the first encountered category on ties
	for i, row := range categories.inOrder() {
		if i == 0 || row.Total.GreaterThan(stats.TopCategoryValue) {
			stats.TopCategoryName = row.Key
			stats.TopCategoryValue = row.Total
		}
	}

	if len(records) > 0 {
		stats.AvgPerTxn = stats.MonthTotal.Div(decimal.NewFromInt(int64(len(records)))).Round(2)
	}

	if !stats.LastMonthTotal.IsZero() {
		denom := decimal.Max(stats.LastMonthTotal, decimal.NewFromInt(1))
		trend, _ := stats.MonthTotal.Sub(stats.LastMonthTotal).
			Div(denom).
			Mul(decimal.NewFromInt(100)).
			Float64()
		stats.Trend = &trend
	}

	return stats
}
