package expense

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/transport"
)

type ServiceAPI interface {
	CreateExpense(ctx context.Context, userID string, dto CreateExpenseDTO) (*Expense, error)
	ListExpenses(ctx context.Context, userID string, spec FilterSpec) ([]*Expense, error)
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	var dto CreateExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	exp, err := h.Service.CreateExpense(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID := errors.UserIDFromContext(r.Context())
	if userID == "" {
		h.HandleServiceError(w, errors.ErrUnauthenticated)
		return
	}

	expenses, err := h.Service.ListExpenses(r.Context(), userID, FilterSpecFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListExpensesResponse{
		Expenses: expenses,
		Count:    len(expenses),
	})
}
