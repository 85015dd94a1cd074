package postgres

import (
	"context"

	"github.com/frahmantamala/expense-insight/internal/category"
	expenseDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/expense"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) DistinctByUser(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Distinct("category").
		Where("user_id = ? AND category <> ''", userID).
		Order("category ASC").
		Pluck("category", &names).Error
	return names, err
}
