package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/frahmantamala/expense-insight/internal/analytics"
	"github.com/frahmantamala/expense-insight/internal/auth"
	"github.com/frahmantamala/expense-insight/internal/user"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print a user's dashboard in the terminal",
	Long:  `Print the dashboard numbers, trailing months and category totals for one user.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.DB.Close()

		ctx := context.Background()
		creds, err := deps.Services.AuthRepo.FindCredentialsByEmail(ctx, auth.NormalizeEmail(summaryEmail))
		if err != nil {
			pterm.Error.Printfln("no user with email %s: %v", summaryEmail, err)
			return
		}

		var (
			profile *user.User
			view    *analytics.DashboardView
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			profile, err = deps.Services.User.GetMe(gctx, creds.UserID)
			return err
		})
		g.Go(func() error {
			var err error
			view, err = deps.Services.Analytics.Dashboard(gctx, creds.UserID)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Fatalf("failed to load summary: %v", err)
		}

		out, err := renderSummary(profile.DisplayName(), view)
		if err != nil {
			log.Fatalf("failed to render summary: %v", err)
		}
		fmt.Println(out)
	},
}

// renderSummary lays the dashboard out as boxed tables.
func renderSummary(name string, view *analytics.DashboardView) (string, error) {
	var b strings.Builder
	cur := view.Currency
	st := view.Stats

	trend := "n/a"
	if st.Trend != nil {
		trend = fmt.Sprintf("%+.1f%%", *st.Trend)
	}

	stats := pterm.TableData{
		{"Metric", "Value"},
		{"Today", money(cur, st.TodayTotal.StringFixed(2))},
		{"This month", money(cur, st.MonthTotal.StringFixed(2))},
		{"Last month", money(cur, st.LastMonthTotal.StringFixed(2))},
		{"Avg per transaction", money(cur, st.AvgPerTxn.StringFixed(2))},
		{"Top category", fmt.Sprintf("%s (%s)", st.TopCategoryName, money(cur, st.TopCategoryValue.StringFixed(2)))},
		{"Trend vs last month", trend},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(stats).Srender()
	if err != nil {
		return "", err
	}
	b.WriteString(pterm.DefaultBox.WithTitle("Dashboard for " + name).Sprint(table))
	b.WriteString("\n")

	sections := []struct {
		title string
		rows  []analytics.GroupRow
	}{
		{"Trailing months", view.TrailingMonths},
		{"Categories", view.Categories},
	}
	for _, sec := range sections {
		if len(sec.rows) == 0 {
			continue
		}
		td := pterm.TableData{{"Key", "Count", "Total"}}
		for _, row := range sec.rows {
			label := row.Label
			if label == "" {
				label = row.Key
			}
			td = append(td, []string{label, fmt.Sprint(row.Count), money(cur, row.Total.StringFixed(2))})
		}
		rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(td).Srender()
		if err != nil {
			return "", err
		}
		b.WriteString(pterm.DefaultSection.Sprint(sec.title))
		b.WriteString(rendered)
		b.WriteString("\n")
	}

	return b.String(), nil
}

func money(currency, amount string) string {
	return currency + " " + amount
}
