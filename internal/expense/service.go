package expense

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	expenseDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/expense"
)

// Query narrows a repository read. Zero values mean no bound.
type Query struct {
	Since *time.Time
	Limit int
}

// RepositoryAPI returns records of exactly one user, ordered by date descending.
type RepositoryAPI interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	FindByUser(ctx context.Context, userID string, q Query) ([]*expenseDatamodel.Expense, error)
}

type Service struct {
	repo            RepositoryAPI
	logger          *slog.Logger
	location        *time.Location
	defaultCurrency string
}

func NewService(repo RepositoryAPI, logger *slog.Logger, location *time.Location, defaultCurrency string) *Service {
	if location == nil {
		location = time.Local
	}
	if defaultCurrency == "" {
		defaultCurrency = "INR"
	}
	return &Service{
		repo:            repo,
		logger:          logger,
		location:        location,
		defaultCurrency: defaultCurrency,
	}
}

// Location is the timezone used to interpret dates and build day keys.
func (s *Service) Location() *time.Location {
	return s.location
}

func (s *Service) CreateExpense(ctx context.Context, userID string, dto CreateExpenseDTO) (*Expense, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	date, verr := dto.Validate(s.location)
	if verr != nil {
		s.logger.Warn("expense validation failed", "user_id", userID, "error", verr.GetDetailedMessage())
		return nil, verr
	}

	exp := NewExpense(userID, dto, date, s.defaultCurrency)
	if err := s.repo.Create(ctx, ToDataModel(exp)); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to create expense", err)
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", userID,
		"amount", exp.Amount.String(),
		"currency", exp.Currency)

	return exp, nil
}

// ListExpenses returns the user's records matching spec, most recent first.
func (s *Service) ListExpenses(ctx context.Context, userID string, spec FilterSpec) ([]*Expense, error) {
	records, err := s.UserExpenses(ctx, userID, Query{})
	if err != nil {
		return nil, err
	}

	filtered := ParseFilter(spec, s.location).Apply(records)
	s.logger.Debug("listed expenses", "user_id", userID, "total", len(records), "matched", len(filtered))
	return filtered, nil
}

// UserExpenses reads a single snapshot of the user's records.
func (s *Service) UserExpenses(ctx context.Context, userID string, q Query) ([]*Expense, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	rows, err := s.repo.FindByUser(ctx, userID, q)
	if err != nil {
		s.logger.Error("failed to load expenses", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("Failed to load expenses", err)
	}

	return FromDataModelSlice(rows), nil
}
