package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendtrack/spendtrack/internal/spendtrack/domain"
	"github.com/spendtrack/spendtrack/internal/spendtrack/service"
	"github.com/spendtrack/spendtrack/pkg/httpx"
	"github.com/spendtrack/spendtrack/pkg/slogx"
)

type expenseRequest struct {
	Description string `json:"description" validate:"max=256"`
	Category    string `json:"category" validate:"required,max=64"`
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Date        string `json:"date" validate:"required"`
}

type expenseResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Date        string `json:"date"`
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Category:    e.Category,
		AmountCents: e.AmountCents,
		Date:        e.Date,
	}
}

func toExpenseResponses(es []domain.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(es))
	for _, e := range es {
		out = append(out, toExpenseResponse(e))
	}
	return out
}

type ExpensesHandler struct {
	ExpenseService *service.ExpenseService
	UserService    *service.UserService
}

// currentUser resolves the request principal to its account record. The
// policy middleware has already rejected unauthenticated requests, so a
// missing principal here means a routing mistake rather than a client error.
func (h *ExpensesHandler) currentUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		log.Error("expense handler reached without principal", "path", r.URL.Path)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to resolve account",
		})
		return domain.User{}, false
	}

	user, err := h.UserService.GetUserByUsername(ctx, principal.Subject)
	if err != nil {
		log.Error("failed to resolve account", "subject", principal.Subject, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to resolve account",
		})
		return domain.User{}, false
	}
	return user, true
}

func (h *ExpensesHandler) writeExpenseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrExpenseNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, httpx.ErrorResponse{
			Error:            "not_found",
			ErrorDescription: "Expense does not exist",
		})
	case errors.Is(err, service.ErrInvalidExpense),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidMonth):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: err.Error(),
		})
	default:
		slogx.FromContext(r.Context()).Error("expense operation failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, httpx.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Expense operation failed",
		})
	}
}

func (h *ExpensesHandler) decodeExpense(w http.ResponseWriter, r *http.Request) (expenseRequest, bool) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body must be valid JSON",
		})
		return expenseRequest{}, false
	}
	if err := validate.Struct(req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "category, a positive amount_cents and date are required",
		})
		return expenseRequest{}, false
	}
	return req, true
}

func (h *ExpensesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	expenses, err := h.ExpenseService.ListExpenses(r.Context(), user.ID)
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

func (h *ExpensesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	expense, err := h.ExpenseService.GetExpense(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *ExpensesHandler) HandleListByDay(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	expenses, err := h.ExpenseService.ListExpensesByDay(r.Context(), user.ID, r.PathValue("date"))
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

func (h *ExpensesHandler) HandleListByCategoryMonth(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	expenses, err := h.ExpenseService.ListExpensesByCategoryAndMonth(
		r.Context(), user.ID, r.PathValue("category"), r.PathValue("month"))
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponses(expenses))
}

func (h *ExpensesHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	categories, err := h.ExpenseService.ListCategories(r.Context(), user.ID)
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, categories)
}

func (h *ExpensesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeExpense(w, r)
	if !ok {
		return
	}

	expense, err := h.ExpenseService.AddExpense(r.Context(), user.ID, domain.Expense{
		Description: req.Description,
		Category:    req.Category,
		AmountCents: req.AmountCents,
		Date:        req.Date,
	})
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *ExpensesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeExpense(w, r)
	if !ok {
		return
	}

	expense, err := h.ExpenseService.UpdateExpense(r.Context(), user.ID, domain.Expense{
		ID:          r.PathValue("id"),
		Description: req.Description,
		Category:    req.Category,
		AmountCents: req.AmountCents,
		Date:        req.Date,
	})
	if err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *ExpensesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.ExpenseService.DeleteExpense(r.Context(), r.PathValue("id"), user.ID); err != nil {
		h.writeExpenseError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
