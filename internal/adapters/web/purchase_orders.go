package web

import (
	"net/http"
	"time"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	var status *core.POStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := core.POStatus(raw)
		status = &s
	}
	orders, err := h.svc.Orders.GetPurchaseOrders(r.Context(), h.companyID(r), status, queryInt(r, "vendor_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var input core.PurchaseOrderInput
	if !decodeJSON(w, r, &input) {
		return
	}
	order, err := h.svc.Orders.CreatePurchaseOrder(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, order)
}

func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Orders.GetPurchaseOrder(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) updatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.PurchaseOrderInput
	if !decodeJSON(w, r, &input) {
		return
	}
	order, err := h.svc.Orders.UpdatePurchaseOrder(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) deletePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Orders.DeletePurchaseOrder(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	order, warning, err := h.svc.Orders.SendPurchaseOrder(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, struct {
		PurchaseOrder *core.PurchaseOrder `json:"purchase_order"`
		Warning       string              `json:"warning,omitempty"`
	}{PurchaseOrder: order, Warning: warning})
}

func (h *Handler) confirmPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p struct {
		ApprovedBy string `json:"approved_by"`
	}
	if !decodeJSONOptional(w, r, &p) {
		return
	}
	order, err := h.svc.Orders.ConfirmPurchaseOrder(r.Context(), h.companyID(r), id, p.ApprovedBy)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) startPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Orders.StartPurchaseOrder(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) completePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p struct {
		ActualDeliveryDate *time.Time `json:"actual_delivery_date,omitempty"`
	}
	if !decodeJSONOptional(w, r, &p) {
		return
	}
	order, err := h.svc.Orders.CompletePurchaseOrder(r.Context(), h.companyID(r), id, p.ActualDeliveryDate)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) cancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.Orders.CancelPurchaseOrder(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
