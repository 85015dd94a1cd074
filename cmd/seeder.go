package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/auth"
	expenseDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	demoEmail    = "demo@local"
	demoPassword = "password123"
	demoName     = "Demo User"
	seedMonths   = 6
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo user and six months of sample expenses.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.DB.Close()

		ctx := context.Background()
		userID, err := ensureDemoUser(ctx, deps.Services)
		if err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
		fmt.Println("Seeded user:", demoEmail)

		if clearData {
			res := deps.Gorm.WithContext(ctx).Where("user_id = ?", userID).Delete(&expenseDatamodel.Expense{})
			if res.Error != nil {
				log.Fatalf("failed to clear expenses: %v", res.Error)
			}
			fmt.Printf("Cleared %d expenses\n", res.RowsAffected)
		}

		loc := deps.Services.Expense.Location()
		count := 0
		for _, dto := range sampleExpenses(time.Now().In(loc)) {
			if _, err := deps.Services.Expense.CreateExpense(ctx, userID, dto); err != nil {
				log.Fatalf("failed to insert expense %s on %s: %v", dto.Category, dto.Date, err)
			}
			count++
		}
		fmt.Printf("Seeded %d expenses\n", count)
	},
}

func ensureDemoUser(ctx context.Context, svc *Services) (string, error) {
	name := demoName
	registered, err := svc.Auth.Register(ctx, auth.RegisterDTO{Email: demoEmail, Password: demoPassword, Name: &name})
	if err == nil {
		return registered.ID, nil
	}
	if appErr, ok := errors.IsAppError(err); !ok || !appErr.Is(errors.ErrUserExists) {
		return "", err
	}

	creds, err := svc.AuthRepo.FindCredentialsByEmail(ctx, demoEmail)
	if err != nil {
		return "", err
	}
	return creds.UserID, nil
}

type sampleItem struct {
	day       int
	amount    string
	category  string
	merchant  string
	method    string
	recurring bool
	tags      []string
}

var sampleMonth = []sampleItem{
	{1, "15000", "Utilities", "Landlord", "upi", true, []string{"rent"}},
	{2, "649", "Entertainment", "Netflix", "card", true, []string{"subscription"}},
	{4, "2350.75", "Groceries", "FreshMart", "card", false, nil},
	{6, "420", "Dining", "Cafe Mocha", "upi", false, []string{"coffee"}},
	{9, "180", "Transport", "Metro", "wallet", false, nil},
	{12, "1899.50", "Groceries", "FreshMart", "card", false, nil},
	{15, "1250", "Dining", "Spice Route", "card", false, []string{"dinner", "friends"}},
	{18, "300", "Transport", "Auto", "cash", false, nil},
	{21, "1340", "Utilities", "Electricity Board", "upi", true, []string{"bill"}},
	{24, "999", "Entertainment", "Cinema", "card", false, nil},
	{27, "560", "Other", "Pharmacy", "cash", false, nil},
}

// sampleExpenses spreads the sample month over the last seedMonths months,
// skipping days after now. Amounts drift slightly per month so trends show.
func sampleExpenses(now time.Time) []expense.CreateExpenseDTO {
	var out []expense.CreateExpenseDTO
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for offset := seedMonths - 1; offset >= 0; offset-- {
		month := start.AddDate(0, -offset, 0)
		factor := decimal.NewFromInt(int64(100 + offset*3)).Div(decimal.NewFromInt(100))

		for _, it := range sampleMonth {
			date := month.AddDate(0, 0, it.day-1)
			if date.Month() != month.Month() || date.After(now) {
				continue
			}

			amount := decimal.RequireFromString(it.amount)
			if !it.recurring {
				amount = amount.Mul(factor).Round(2)
			}
			merchant := it.merchant
			method := it.method
			recurring := it.recurring

			out = append(out, expense.CreateExpenseDTO{
				Date:          date.Format("2006-01-02"),
				Amount:        &amount,
				Category:      it.category,
				Merchant:      &merchant,
				Tags:          append([]string(nil), it.tags...),
				PaymentMethod: &method,
				Recurring:     &recurring,
			})
		}
	}
	return out
}
