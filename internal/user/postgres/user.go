package postgres

import (
	"context"
	stderrors "errors"

	errors "github.com/frahmantamala/expense-insight/internal"
	userDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/user"
	"github.com/frahmantamala/expense-insight/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*userDatamodel.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&row).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, userID, name string) error {
	return r.update(ctx, userID, map[string]interface{}{"name": name})
}

// UpdateImage stores image, or clears the column when image is nil.
func (r *UserRepository) UpdateImage(ctx context.Context, userID string, image *string) error {
	return r.update(ctx, userID, map[string]interface{}{"image": image})
}

func (r *UserRepository) update(ctx context.Context, userID string, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}
