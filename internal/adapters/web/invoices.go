package web

import (
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	var status *core.InvoiceStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.InvoiceStatus(raw)
		status = &s
	}
	invoices, err := h.svc.Invoices.GetInvoices(r.Context(), h.companyID(r), status, queryInt(r, "customer_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoices)
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var input core.InvoiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	invoice, err := h.svc.Invoices.CreateInvoice(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, invoice)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	invoice, err := h.svc.Invoices.GetInvoice(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.InvoiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	invoice, err := h.svc.Invoices.UpdateInvoice(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Invoices.DeleteInvoice(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	invoice, warning, err := h.svc.Invoices.SendInvoice(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		Invoice *core.Invoice `json:"invoice"`
		Warning string        `json:"warning,omitempty"`
	}{Invoice: invoice, Warning: warning})
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.PaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	invoice, err := h.svc.Invoices.AddPayment(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, invoice)
}

func (h *Handler) cancelInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	invoice, err := h.svc.Invoices.CancelInvoice(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, invoice)
}

func (h *Handler) markOverdue(w http.ResponseWriter, r *http.Request) {
	marked, err := h.svc.Invoices.MarkOverdueInvoices(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		Marked int64 `json:"marked"`
	}{Marked: marked})
}
