package web

import (
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.Expenses.GetExpenses(r.Context(), h.companyID(r),
		queryInt(r, "category_id"), queryDate(r, "from"), queryDate(r, "to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expenses)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var input core.ExpenseInput
	if !decodeJSON(w, r, &input) {
		return
	}
	expense, err := h.svc.Expenses.CreateExpense(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, expense)
}

func (h *Handler) getExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	expense, err := h.svc.Expenses.GetExpense(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expense)
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.ExpenseInput
	if !decodeJSON(w, r, &input) {
		return
	}
	expense, err := h.svc.Expenses.UpdateExpense(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, expense)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Expenses.DeleteExpense(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
