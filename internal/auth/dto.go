package auth

import (
	"strings"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterDTO struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (d LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required(errors.ErrCodeInvalidEmail)
	v.Field("password", d.Password).Required(errors.ErrCodeValidationFailed)
	return v.Validate()
}

func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("email", NormalizeEmail(d.Email)).
		Required(errors.ErrCodeInvalidEmail).
		Contains("@", errors.ErrCodeInvalidEmail)
	v.Field("password", d.Password).
		Required(errors.ErrCodeWeakPassword).
		MinLength(MinPasswordLength, errors.ErrCodeWeakPassword)
	if d.Name != nil {
		v.Field("name", strings.TrimSpace(*d.Name)).MaxLength(100, errors.ErrCodeInvalidName)
	}
	return v.Validate()
}

func (d RefreshTokenDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("refresh_token", d.RefreshToken).Required(errors.ErrCodeInvalidToken)
	return v.Validate()
}
