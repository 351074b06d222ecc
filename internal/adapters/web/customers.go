package web

import (
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers.GetCustomers(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customers)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var input core.CustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	customer, err := h.svc.Customers.CreateCustomer(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, customer)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	customer, err := h.svc.Customers.GetCustomer(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.CustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	customer, err := h.svc.Customers.UpdateCustomer(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Customers.DeleteCustomer(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) customerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	stats, err := h.svc.Reports.GetCustomerStats(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, stats)
}
