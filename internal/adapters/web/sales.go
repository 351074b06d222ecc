package web

import (
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.svc.Sales.GetSales(r.Context(), h.companyID(r), queryDate(r, "from"), queryDate(r, "to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sales)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var input core.SaleInput
	if !decodeJSON(w, r, &input) {
		return
	}
	sale, err := h.svc.Sales.CreateSale(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	sale, err := h.svc.Sales.GetSale(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, sale)
}

func (h *Handler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Sales.DeleteSale(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) recordReturn(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.SaleReturnInput
	if !decodeJSON(w, r, &input) {
		return
	}
	sale, err := h.svc.Sales.RecordReturn(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sale)
}
