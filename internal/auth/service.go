package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	userDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a password account. An existing account without a password
// (created through an external provider) gets the password attached instead.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*RegisteredUser, error) {
	if verr := dto.Validate(); verr != nil {
		return nil, verr
	}

	email := NormalizeEmail(dto.Email)
	var name *string
	if dto.Name != nil {
		if n := strings.TrimSpace(*dto.Name); n != "" {
			name = &n
		}
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash password", err)
	}

	existing, err := s.repo.FindCredentialsByEmail(ctx, email)
	switch {
	case err == nil && existing.HasPassword():
		s.logger.Info("registration rejected: account exists", "user_id", existing.UserID)
		return nil, errors.ErrUserExists
	case err == nil:
		if err := s.repo.SetPassword(ctx, existing.UserID, hash); err != nil {
			return nil, errors.NewInternalError("Failed to set password", err)
		}
		s.logger.Info("password attached to existing account", "user_id", existing.UserID)
		return &RegisteredUser{ID: existing.UserID, Email: existing.Email, Name: name}, nil
	case !errorsIsNotFound(err):
		s.logger.Error("failed to look up account", "error", err)
		return nil, errors.NewInternalError("Failed to look up account", err)
	}

	now := time.Now()
	user := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &RegisteredUser{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if verr := dto.Validate(); verr != nil {
		return AuthTokens{}, verr
	}

	creds, err := s.repo.FindCredentialsByEmail(ctx, NormalizeEmail(dto.Email))
	if err != nil {
		if !errorsIsNotFound(err) {
			s.logger.Error("failed to load credentials", "error", err)
		}
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if !creds.HasPassword() {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if err := VerifyPassword(*creds.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	return s.issue(creds.UserID, creds.Email)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.ResolveUser(ctx, claims.UserID); err != nil {
		return AuthTokens{}, err
	}
	return s.issue(claims.UserID, claims.Email)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// ResolveUser reports ErrUserNotFound when the id no longer maps to an account.
func (s *Service) ResolveUser(ctx context.Context, userID string) error {
	ok, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return errors.NewInternalError("Failed to resolve user", err)
	}
	if !ok {
		return errors.ErrUserNotFound
	}
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issue(userID, email string) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to sign token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("Failed to sign token", err)
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func errorsIsNotFound(err error) bool {
	appErr, ok := errors.IsAppError(err)
	return ok && appErr.Is(errors.ErrUserNotFound)
}
