package user

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/transport"
)

type ServiceAPI interface {
	GetMe(ctx context.Context, userID string) (*User, error)
	UpdateName(ctx context.Context, userID string, dto UpdateNameDTO) (string, error)
	SetImage(ctx context.Context, userID string, dto ProfileImageDTO) (*User, error)
	DeleteImage(ctx context.Context, userID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())

	u, err := h.Service.GetMe(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// UpdateName handles PATCH /settings/name
func (h *Handler) UpdateName(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	var dto UpdateNameDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	name, err := h.Service.UpdateName(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UpdateNameResponse{Name: name})
}

// SetImage handles POST /profile/image
func (h *Handler) SetImage(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	var dto ProfileImageDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	u, err := h.Service.SetImage(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ProfileImageResponse{Success: true, User: u})
}

// DeleteImage handles DELETE /profile/image
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())

	if err := h.Service.DeleteImage(r.Context(), userID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ProfileImageResponse{Success: true})
}
