package user

import (
	"context"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/expense-insight/internal"
	userDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, userID string) (*userDatamodel.User, error)
	UpdateName(ctx context.Context, userID, name string) error
	UpdateImage(ctx context.Context, userID string, image *string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.repoError("load user", userID, err)
	}
	return FromDataModel(row), nil
}

func (s *Service) UpdateName(ctx context.Context, userID string, dto UpdateNameDTO) (string, error) {
	if userID == "" {
		return "", errors.ErrUnauthenticated
	}
	if verr := dto.Validate(); verr != nil {
		return "", verr
	}

	name := strings.TrimSpace(dto.Name)
	if err := s.repo.UpdateName(ctx, userID, name); err != nil {
		return "", s.repoError("update name", userID, err)
	}

	s.logger.Info("user name updated", "user_id", userID)
	return name, nil
}

func (s *Service) SetImage(ctx context.Context, userID string, dto ProfileImageDTO) (*User, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	image := strings.TrimSpace(dto.ImageURL)
	if err := s.repo.UpdateImage(ctx, userID, &image); err != nil {
		return nil, s.repoError("set image", userID, err)
	}

	s.logger.Info("profile image set", "user_id", userID)
	return s.GetMe(ctx, userID)
}

// DeleteImage is idempotent: clearing an absent image succeeds.
func (s *Service) DeleteImage(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.ErrUnauthenticated
	}

	row, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return s.repoError("load user", userID, err)
	}
	if row.Image == nil {
		return nil
	}

	if err := s.repo.UpdateImage(ctx, userID, nil); err != nil {
		return s.repoError("clear image", userID, err)
	}

	s.logger.Info("profile image removed", "user_id", userID)
	return nil
}

func (s *Service) repoError(op, userID string, err error) error {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("user repository failed", "op", op, "user_id", userID, "error", err)
	return errors.NewInternalError("Failed to "+op, err)
}
