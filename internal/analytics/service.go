package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-insight/internal/expense"
)

const (
	TrailingMonths      = 12
	DashboardRecentSize = 10
)

// ExpenseSource is the read side of the expense service.
type ExpenseSource interface {
	UserExpenses(ctx context.Context, userID string, q expense.Query) ([]*expense.Expense, error)
	ListExpenses(ctx context.Context, userID string, spec expense.FilterSpec) ([]*expense.Expense, error)
	Location() *time.Location
}

type DashboardView struct {
	Stats          DashboardStats     `json:"stats"`
	Currency       string             `json:"currency"`
	TrailingMonths []GroupRow         `json:"trailingMonths"`
	Categories     []GroupRow         `json:"categories"`
	DailySeries    []GroupRow         `json:"dailySeries"`
	Recent         []*expense.Expense `json:"recent"`
}

type BreakdownView struct {
	Filter   expense.FilterSpec `json:"filter"`
	Totals   Totals             `json:"totals"`
	ByDay    []GroupRow         `json:"byDay"`
	ByMonth  []GroupRow         `json:"byMonth"`
	Expenses []*expense.Expense `json:"expenses"`
}

type AnalyticsView struct {
	WindowStart     time.Time  `json:"windowStart"`
	Currency        string     `json:"currency"`
	Totals          Totals     `json:"totals"`
	ByCategory      []GroupRow `json:"byCategory"`
	ByPaymentMethod []GroupRow `json:"byPaymentMethod"`
	ByMonth         []GroupRow `json:"byMonth"`
}

type Service struct {
	source          ExpenseSource
	logger          *slog.Logger
	defaultCurrency string
	now             func() time.Time
}

func NewService(source ExpenseSource, logger *slog.Logger, defaultCurrency string) *Service {
	return &Service{
		source:          source,
		logger:          logger,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) localNow() time.Time {
	return s.now().In(s.source.Location())
}

// currency reports the currency of the most recent record, or the default.
func (s *Service) currency(records []*expense.Expense) string {
	if len(records) > 0 && records[0].Currency != "" {
		return records[0].Currency
	}
	return s.defaultCurrency
}

func (s *Service) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	records, err := s.source.UserExpenses(ctx, userID, expense.Query{})
	if err != nil {
		return nil, err
	}

	now := s.localNow()
	local := InLocation(records, now.Location())

	recent := local
	if len(recent) > DashboardRecentSize {
		recent = recent[:DashboardRecentSize]
	}

	view := &DashboardView{
		Stats:          ComputeDashboardStats(local, now),
		Currency:       s.currency(local),
		TrailingMonths: GroupByTrailingMonths(local, now, TrailingMonths),
		Categories:     GroupByCategory(local),
		DailySeries:    GroupByDayOfMonth(local, now.Year(), now.Month(), now.Location()),
		Recent:         recent,
	}

	s.logger.Debug("dashboard computed", "user_id", userID, "records", len(records))
	return view, nil
}

func (s *Service) Breakdown(ctx context.Context, userID string, spec expense.FilterSpec) (*BreakdownView, error) {
	records, err := s.source.ListExpenses(ctx, userID, spec)
	if err != nil {
		return nil, err
	}

	local := InLocation(records, s.source.Location())
	return &BreakdownView{
		Filter:   spec,
		Totals:   Summarize(local),
		ByDay:    GroupByDay(local),
		ByMonth:  GroupByMonth(local),
		Expenses: local,
	}, nil
}

// Analytics covers the trailing twelve calendar months including the current one.
func (s *Service) Analytics(ctx context.Context, userID string) (*AnalyticsView, error) {
	now := s.localNow()
	since := monthStart(now).AddDate(0, -(TrailingMonths - 1), 0)

	records, err := s.source.UserExpenses(ctx, userID, expense.Query{Since: &since})
	if err != nil {
		return nil, err
	}

	local := InLocation(records, now.Location())
	return &AnalyticsView{
		WindowStart:     since,
		Currency:        s.currency(local),
		Totals:          Summarize(local),
		ByCategory:      GroupByCategory(local),
		ByPaymentMethod: GroupByPaymentMethod(local),
		ByMonth:         GroupByTrailingMonths(local, now, TrailingMonths),
	}, nil
}
