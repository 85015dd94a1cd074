package cmd

import (
	"time"

	"github.com/frahmantamala/expense-insight/internal/analytics"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = ginkgo.Describe("sampleExpenses", func() {
	now := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

	ginkgo.It("covers six months without future dates", func() {
		dtos := sampleExpenses(now)

		// five items fall on or before the 10th, full months carry eleven
		gomega.Expect(dtos).To(gomega.HaveLen(5 + 5*len(sampleMonth)))

		months := map[string]bool{}
		for _, d := range dtos {
			date, err := time.ParseInLocation("2006-01-02", d.Date, time.UTC)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(date.After(now)).To(gomega.BeFalse())
			months[date.Format("2006-01")] = true
		}
		gomega.Expect(months).To(gomega.HaveLen(seedMonths))
		gomega.Expect(months).To(gomega.HaveKey("2025-10"))
	})

	ginkgo.It("produces valid payloads", func() {
		for _, d := range sampleExpenses(now) {
			_, err := d.Validate(time.UTC)
			gomega.Expect(err).To(gomega.BeNil())
		}
	})

	ginkgo.It("keeps recurring amounts fixed and is deterministic", func() {
		first := sampleExpenses(now)
		second := sampleExpenses(now)
		gomega.Expect(first).To(gomega.HaveLen(len(second)))

		for i, d := range first {
			gomega.Expect(d.Amount.Equal(*second[i].Amount)).To(gomega.BeTrue())
			if *d.Recurring && d.Category == "Utilities" && *d.Merchant == "Landlord" {
				gomega.Expect(d.Amount.String()).To(gomega.Equal("15000"))
			}
		}
	})
})

var _ = ginkgo.Describe("renderSummary", func() {
	ginkgo.It("renders stats and group tables", func() {
		trend := 12.5
		view := &analytics.DashboardView{
			Currency: "INR",
			Stats: analytics.DashboardStats{
				TodayTotal:       decimal.RequireFromString("150.5"),
				MonthTotal:       decimal.RequireFromString("900"),
				LastMonthTotal:   decimal.RequireFromString("800"),
				AvgPerTxn:        decimal.RequireFromString("75"),
				TopCategoryName:  "Groceries",
				TopCategoryValue: decimal.RequireFromString("600"),
				Trend:            &trend,
			},
			TrailingMonths: []analytics.GroupRow{
				{Key: "2026-03", Label: "Mar 2026", Total: decimal.RequireFromString("900"), Count: 4},
			},
			Categories: []analytics.GroupRow{
				{Key: "Groceries", Label: "Groceries", Total: decimal.RequireFromString("600"), Count: 2},
				{Key: "Dining", Label: "Dining", Total: decimal.RequireFromString("300"), Count: 2},
			},
		}

		out, err := renderSummary("Demo User", view)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(out).To(gomega.ContainSubstring("Dashboard for Demo User"))
		gomega.Expect(out).To(gomega.ContainSubstring("INR 150.50"))
		gomega.Expect(out).To(gomega.ContainSubstring("+12.5%"))
		gomega.Expect(out).To(gomega.ContainSubstring("Mar 2026"))
		gomega.Expect(out).To(gomega.ContainSubstring("Dining"))
	})

	ginkgo.It("skips empty sections and shows n/a without a trend", func() {
		view := &analytics.DashboardView{
			Currency: "USD",
			Stats:    analytics.DashboardStats{TopCategoryName: analytics.TopCategoryPlaceholder},
		}

		out, err := renderSummary("nobody@example.com", view)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(out).To(gomega.ContainSubstring("n/a"))
		gomega.Expect(out).NotTo(gomega.ContainSubstring("Trailing months"))
	})
})
