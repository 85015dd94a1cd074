package assistant

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/transport"
)

type ServiceAPI interface {
	AnswerQuestion(ctx context.Context, userID, query string) (*Answer, error)
	GenerateRecommendations(ctx context.Context, userID string) (*RecommendationResult, error)
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

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	var dto QueryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	answer, err := h.Service.AnswerQuestion(r.Context(), userID, dto.QueryText)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, answer)
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	result, err := h.Service.GenerateRecommendations(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}
