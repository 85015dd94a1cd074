package category

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/expense-insight/internal"
)

type RepositoryAPI interface {
	// DistinctByUser returns the category labels the user has recorded.
	DistinctByUser(ctx context.Context, userID string) ([]string, error)
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

func (s *Service) GetCategories(ctx context.Context, userID string) ([]CategoryResponse, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	own, err := s.repo.DistinctByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("Failed to load categories", err)
	}

	merged := Merge(DefaultCategories, own)
	responses := make([]CategoryResponse, 0, len(merged))
	for _, c := range merged {
		responses = append(responses, c.ToResponse())
	}

	s.logger.Info("retrieved categories", "user_id", userID, "count", len(responses))
	return responses, nil
}
