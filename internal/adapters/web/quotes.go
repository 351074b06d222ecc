package web

import (
	"net/http"
	"time"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listQuotes(w http.ResponseWriter, r *http.Request) {
	var status *core.QuoteStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.QuoteStatus(raw)
		status = &s
	}
	quotes, err := h.svc.Quotes.GetQuotes(r.Context(), h.companyID(r), status, queryInt(r, "customer_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quotes)
}

func (h *Handler) createQuote(w http.ResponseWriter, r *http.Request) {
	var input core.QuoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	quote, err := h.svc.Quotes.CreateQuote(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, quote)
}

func (h *Handler) getQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	quote, err := h.svc.Quotes.GetQuote(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quote)
}

func (h *Handler) updateQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.QuoteInput
	if !decodeJSON(w, r, &input) {
		return
	}
	quote, err := h.svc.Quotes.UpdateQuote(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quote)
}

func (h *Handler) deleteQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Quotes.DeleteQuote(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	quote, warning, err := h.svc.Quotes.SendQuote(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		Quote   *core.Quote `json:"quote"`
		Warning string      `json:"warning,omitempty"`
	}{Quote: quote, Warning: warning})
}

func (h *Handler) markQuoteViewed(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	quote, err := h.svc.Quotes.MarkQuoteViewed(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quote)
}

func (h *Handler) acceptQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	quote, err := h.svc.Quotes.AcceptQuote(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quote)
}

func (h *Handler) rejectQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p struct {
		Reason *string `json:"reason,omitempty"`
	}
	if !decodeJSONOptional(w, r, &p) {
		return
	}
	quote, err := h.svc.Quotes.RejectQuote(r.Context(), h.companyID(r), id, p.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, quote)
}

func (h *Handler) convertQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p struct {
		DueDate *time.Time `json:"due_date,omitempty"`
	}
	if !decodeJSONOptional(w, r, &p) {
		return
	}
	invoice, err := h.svc.Quotes.ConvertToInvoice(r.Context(), h.companyID(r), id, p.DueDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, invoice)
}

func (h *Handler) expireQuotes(w http.ResponseWriter, r *http.Request) {
	expired, err := h.svc.Quotes.ExpireStaleQuotes(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		Expired int64 `json:"expired"`
	}{Expired: expired})
}
