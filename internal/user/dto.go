package user

import (
	"strings"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/core/common/validation"
)

type UpdateNameDTO struct {
	Name string `json:"name"`
}

func (d UpdateNameDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).
		Required(errors.ErrCodeInvalidName).
		MaxLength(100, errors.ErrCodeInvalidName)
	return v.Validate()
}

type ProfileImageDTO struct {
	ImageURL string `json:"imageUrl"`
}

func (d ProfileImageDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("imageUrl", strings.TrimSpace(d.ImageURL)).
		Required(errors.ErrCodeInvalidImageURL).
		HTTPURL(errors.ErrCodeInvalidImageURL)
	return v.Validate()
}

type UpdateNameResponse struct {
	Name string `json:"name"`
}

type ProfileImageResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user,omitempty"`
}
