package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/auth"
	userDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
)

// Repository implements auth.RepositoryAPI with hand-written SQL over sqlx.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ auth.RepositoryAPI = (*Repository)(nil)

func (r *Repository) FindCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := r.db.Rebind(`SELECT id, email, password_hash FROM users WHERE email = ?`)

	if err := r.db.GetContext(ctx, &creds, query, email); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *userDatamodel.User) error {
	query := `INSERT INTO users (id, email, name, image, password_hash, created_at, updated_at)
	          VALUES (:id, :email, :name, :image, :password_hash, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *Repository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	query := r.db.Rebind(`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(1) FROM users WHERE id = ?`)

	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return false, err
	}
	return count > 0, nil
}
