package analytics

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/expense"
	"github.com/frahmantamala/expense-insight/internal/transport"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context, userID string) (*DashboardView, error)
	Breakdown(ctx context.Context, userID string, spec expense.FilterSpec) (*BreakdownView, error)
	Analytics(ctx context.Context, userID string) (*AnalyticsView, error)
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

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	view, err := h.Service.Dashboard(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	view, err := h.Service.Breakdown(r.Context(), userID, expense.FilterSpecFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	view, err := h.Service.Analytics(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}
