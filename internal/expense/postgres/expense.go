package postgres

import (
	"context"

	expenseDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-insight/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.RepositoryAPI using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(exp).Error
}

// FindByUser never returns rows of another user.
func (r *ExpenseRepository) FindByUser(ctx context.Context, userID string, q expense.Query) ([]*expenseDatamodel.Expense, error) {
	var rows []*expenseDatamodel.Expense

	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC")

	if q.Since != nil {
		tx = tx.Where("date >= ?", *q.Since)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
