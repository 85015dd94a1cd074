package assistant_test

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/frahmantamala/expense-insight/internal/assistant"
	"github.com/frahmantamala/expense-insight/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func rec(id string, date time.Time, amount, category string) *expense.Expense {
	return &expense.Expense{
		ID:        id,
		UserID:    "user-1",
		Date:      date,
		Amount:    decimal.RequireFromString(amount),
		Currency:  "INR",
		Category:  category,
		Merchant:  strPtr("Shop " + id),
		Notes:     strPtr("private note " + id),
		Tags:      []string{"secret-tag"},
		Recurring: true,
	}
}

var _ = Describe("Context Builder", func() {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	Describe("BuildSixMonthContext", func() {
		It("caps recent transactions at 50 and keeps them newest first", func() {
			var records []*expense.Expense
			for i := 0; i < 200; i++ {
				records = append(records, rec(fmt.Sprintf("r%d", i), now.Add(-time.Duration(i)*time.Hour), "1", "Food"))
			}

			ctx := assistant.BuildSixMonthContext(records, now)
			Expect(ctx.RecentTransactions).To(HaveLen(50))
			Expect(ctx.RecentTransactions[0].Date).To(Equal("2024-07-15T12:00:00.000Z"))
			Expect(ctx.RecentTransactions[49].Date).To(Equal(now.Add(-49 * time.Hour).Format("2006-01-02T15:04:05.000Z07:00")))
		})

		It("omits notes and tags from the serialized payload", func() {
			ctx := assistant.BuildSixMonthContext([]*expense.Expense{rec("a", now, "10", "Food")}, now)
			raw, err := json.Marshal(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).NotTo(ContainSubstring("private note"))
			Expect(string(raw)).NotTo(ContainSubstring("secret-tag"))
			Expect(string(raw)).NotTo(ContainSubstring("recurring"))

			var decoded map[string]interface{}
			Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
			tx := decoded["recentTransactions"].([]interface{})[0].(map[string]interface{})
			Expect(tx).To(HaveLen(4))
			Expect(tx).To(HaveKey("date"))
			Expect(tx).To(HaveKey("amount"))
			Expect(tx).To(HaveKey("category"))
			Expect(tx).To(HaveKeyWithValue("merchant", "Shop a"))
		})

		It("drops records older than six months but keeps the boundary", func() {
			boundary := now.AddDate(0, -6, 0)
			records := []*expense.Expense{
				rec("in", boundary, "5", "Food"),
				rec("out", boundary.Add(-time.Millisecond), "7", "Food"),
			}
			ctx := assistant.BuildSixMonthContext(records, now)
			Expect(ctx.RecentTransactions).To(HaveLen(1))
			Expect(ctx.MonthlyTotals).To(HaveLen(1))
			Expect(ctx.MonthlyTotals["2024-01"].String()).To(Equal("5"))
		})

		It("folds monthly totals and the top six categories", func() {
			var records []*expense.Expense
			for i, cat := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
				records = append(records, rec(cat, now.AddDate(0, 0, -i), fmt.Sprintf("%d", (i+1)*10), cat))
			}
			records = append(records, rec("june", time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), "1000", ""))

			ctx := assistant.BuildSixMonthContext(records, now)
			Expect(ctx.TopCategories).To(HaveLen(6))
			Expect(ctx.TopCategories[0].Category).To(Equal("Uncategorized"))
			Expect(ctx.TopCategories[1].Category).To(Equal("H"))
			Expect(ctx.TopCategories[5].Category).To(Equal("D"))
			Expect(ctx.MonthlyTotals["2024-07"].String()).To(Equal("360"))
			Expect(ctx.MonthlyTotals["2024-06"].String()).To(Equal("1000"))
		})

		It("returns empty collections for no records", func() {
			raw, err := json.Marshal(assistant.BuildSixMonthContext(nil, now))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(`{"monthlyTotals":{},"topCategories":[],"recentTransactions":[]}`))
		})
	})

	Describe("BuildRecommendationContext", func() {
		It("takes the 500 most recent records including notes, tags and recurring", func() {
			var records []*expense.Expense
			for i := 0; i < 600; i++ {
				records = append(records, rec(fmt.Sprintf("r%d", i), now.AddDate(-2, 0, i), "1", "Food"))
			}

			out := assistant.BuildRecommendationContext(records)
			Expect(out).To(HaveLen(500))
			Expect(out[0].Date).To(Equal(now.AddDate(-2, 0, 599).UTC().Format("2006-01-02T15:04:05.000Z07:00")))
			Expect(*out[0].Notes).To(Equal("private note r599"))
			Expect(out[0].Tags).To(Equal([]string{"secret-tag"}))
			Expect(out[0].Recurring).To(BeTrue())
		})
	})
})
