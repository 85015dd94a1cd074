package auth

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	userDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository keeps users keyed by email.
type mockUserRepository struct {
	users         map[string]*userDatamodel.User
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	hash := string(hashed)

	return &mockUserRepository{
		users: map[string]*userDatamodel.User{
			"user@example.com":   {ID: "u-1", Email: "user@example.com", PasswordHash: &hash},
			"oauth@example.com":  {ID: "u-2", Email: "oauth@example.com"},
			"second@example.com": {ID: "u-3", Email: "second@example.com", PasswordHash: &hash},
		},
	}
}

func (m *mockUserRepository) FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	u, ok := m.users[email]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return &Credentials{UserID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash}, nil
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == userID {
			h := passwordHash
			u.PasswordHash = &h
			return nil
		}
	}
	return errors.ErrUserNotFound
}

func (m *mockUserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	for _, u := range m.users {
		if u.ID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

const (
	testAccessSecret  = "test-access-secret-0123456789abcdef"
	testRefreshSecret = "test-refresh-secret-0123456789abcdef"
)

func newTestService(repo RepositoryAPI) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	tokenGen := NewJWTTokenGenerator(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
	return NewService(repo, tokenGen, bcrypt.MinCost, logger)
}

// expiredGenerator bypasses the constructor defaults to mint already expired tokens.
func expiredGenerator() *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(testAccessSecret),
		RefreshTokenSecret: []byte(testRefreshSecret),
		AccessTokenTTL:     -time.Hour,
		RefreshTokenTTL:    -time.Hour,
	}
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = newTestService(mockRepo)
		ctx = context.Background()
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("creates a new account with a hashed password", func() {
			// Given
			name := "  Asha  "
			dto := RegisterDTO{Email: " New@Example.com ", Password: "secret1", Name: &name}

			// When
			user, err := service.Register(ctx, dto)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(user.Email).To(gomega.Equal("new@example.com"))
			gomega.Expect(*user.Name).To(gomega.Equal("Asha"))

			stored := mockRepo.users["new@example.com"]
			gomega.Expect(stored).ToNot(gomega.BeNil())
			gomega.Expect(*stored.PasswordHash).ToNot(gomega.Equal("secret1"))
			gomega.Expect(VerifyPassword(*stored.PasswordHash, "secret1")).To(gomega.Succeed())
		})

		ginkgo.It("rejects an email that already has a password", func() {
			// When
			user, err := service.Register(ctx, RegisterDTO{Email: "user@example.com", Password: "another1"})

			// Then
			gomega.Expect(user).To(gomega.BeNil())
			gomega.Expect(err).To(gomega.Equal(errors.ErrUserExists))
		})

		ginkgo.It("attaches a password to a provider-only account", func() {
			// When
			user, err := service.Register(ctx, RegisterDTO{Email: "oauth@example.com", Password: "secret12"})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.Equal("u-2"))

			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "oauth@example.com", Password: "secret12"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("rejects a short password", func() {
			// When
			_, err := service.Register(ctx, RegisterDTO{Email: "short@example.com", Password: "abc"})

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("password must be at least 6 characters"))
			gomega.Expect(mockRepo.users).ToNot(gomega.HaveKey("short@example.com"))
		})

		ginkgo.It("rejects an email without @", func() {
			// When
			_, err := service.Register(ctx, RegisterDTO{Email: "not-an-email", Password: "secret1"})

			// Then
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeValidation))
			gomega.Expect(err.Error()).To(gomega.Equal("email is invalid"))
		})

		ginkgo.It("wraps repository failures as internal errors", func() {
			// Given
			mockRepo.setError(stderrors.New("database error"))

			// When
			_, err := service.Register(ctx, RegisterDTO{Email: "x@example.com", Password: "secret1"})

			// Then
			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(errors.ErrorTypeInternal))
		})
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return distinct access and refresh tokens", func() {
				// When
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should match the email case-insensitively", func() {
				// When
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "USER@example.com ", Password: "correct_password"})

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("u-1"))
				gomega.Expect(claims.Email).To(gomega.Equal("user@example.com"))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return error for unknown email", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@example.com", Password: "any_password"})

				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return error for wrong password", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "wrong_password"})

				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
				gomega.Expect(tokens.RefreshToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return error for an account without a password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "oauth@example.com", Password: "anything"})

				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "", Password: "password"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should return validation error for empty password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: ""})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should return invalid credentials error", func() {
				mockRepo.setError(stderrors.New("database error"))

				_, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})

				gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidCredentials))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		var validRefreshToken string

		ginkgo.BeforeEach(func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			validRefreshToken = tokens.RefreshToken
		})

		ginkgo.It("should preserve user information in new tokens", func() {
			newTokens, err := service.RefreshTokens(ctx, validRefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			claims, err := service.ValidateAccessToken(newTokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("u-1"))
			gomega.Expect(claims.TokenType).To(gomega.Equal(TokenTypeAccess))
		})

		ginkgo.It("should reject an access token used as a refresh token", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "user@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, tokens.AccessToken)

			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})

		ginkgo.It("should return error for malformed token", func() {
			tokens, err := service.RefreshTokens(ctx, "invalid.token.format")

			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
			gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
		})

		ginkgo.It("should return error for expired token", func() {
			expiredToken, err := expiredGenerator().GenerateRefreshToken("u-1", "user@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, expiredToken)

			gomega.Expect(err).To(gomega.Equal(errors.ErrTokenExpired))
		})

		ginkgo.It("should return not found once the account is gone", func() {
			delete(mockRepo.users, "user@example.com")

			_, err := service.RefreshTokens(ctx, validRefreshToken)

			gomega.Expect(err).To(gomega.Equal(errors.ErrUserNotFound))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should return claims with user information", func() {
			tokens, err := service.Authenticate(ctx, LoginDTO{Email: "second@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("u-3"))
			gomega.Expect(claims.ExpiresAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("should return error for empty token", func() {
			claims, err := service.ValidateAccessToken("")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(claims).To(gomega.BeNil())
		})

		ginkgo.It("should return error for expired token", func() {
			expiredToken, err := expiredGenerator().GenerateAccessToken("u-1", "user@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(expiredToken)

			gomega.Expect(err).To(gomega.Equal(errors.ErrTokenExpired))
			gomega.Expect(claims).To(gomega.BeNil())
		})

		ginkgo.It("should reject a token signed with another secret", func() {
			other := NewJWTTokenGenerator("another-access-secret-0123456789ab", testRefreshSecret, time.Minute, time.Hour)
			token, err := other.GenerateAccessToken("u-1", "user@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)

			gomega.Expect(err).To(gomega.Equal(errors.ErrInvalidToken))
		})
	})

	ginkgo.Describe("ResolveUser", func() {
		ginkgo.It("succeeds for an existing user", func() {
			gomega.Expect(service.ResolveUser(ctx, "u-1")).To(gomega.Succeed())
		})

		ginkgo.It("returns not found for an unknown id", func() {
			gomega.Expect(service.ResolveUser(ctx, "missing")).To(gomega.Equal(errors.ErrUserNotFound))
		})

		ginkgo.It("wraps repository failures", func() {
			mockRepo.setError(stderrors.New("database error"))

			err := service.ResolveUser(ctx, "u-1")

			appErr, ok := errors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})
	})
})
