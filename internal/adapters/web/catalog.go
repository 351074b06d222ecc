package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

// ── Categories ──────────────────────────────────────────────────────────────

type categoryPayload struct {
	Name string            `json:"name"`
	Kind core.CategoryKind `json:"kind"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	kind := core.CategoryKind(r.URL.Query().Get("kind"))
	categories, err := h.svc.Categories.GetCategories(r.Context(), h.companyID(r), kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, categories)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var p categoryPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	category, err := h.svc.Categories.CreateCategory(r.Context(), h.companyID(r), p.Name, p.Kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p categoryPayload
	if !decodeJSON(w, r, &p) {
		return
	}
	category, err := h.svc.Categories.UpdateCategory(r.Context(), h.companyID(r), id, p.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Categories.DeleteCategory(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Tax rates ───────────────────────────────────────────────────────────────

type taxRatePayload struct {
	Name      string          `json:"name"`
	Rate      decimal.Decimal `json:"rate"`
	IsDefault bool            `json:"is_default"`
}

func (h *Handler) listTaxRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.Taxes.GetTaxRates(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, rates)
}

func (h *Handler) createTaxRate(w http.ResponseWriter, r *http.Request) {
	var p taxRatePayload
	if !decodeJSON(w, r, &p) {
		return
	}
	rate, err := h.svc.Taxes.CreateTaxRate(r.Context(), h.companyID(r), p.Name, p.Rate, p.IsDefault)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, rate)
}

func (h *Handler) updateTaxRate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p taxRatePayload
	if !decodeJSON(w, r, &p) {
		return
	}
	rate, err := h.svc.Taxes.UpdateTaxRate(r.Context(), h.companyID(r), id, p.Name, p.Rate, p.IsDefault)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, rate)
}

func (h *Handler) deleteTaxRate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Taxes.DeleteTaxRate(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ── Products ────────────────────────────────────────────────────────────────

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.GetProducts(r.Context(), h.companyID(r), queryInt(r, "category_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input core.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	product, err := h.svc.Products.CreateProduct(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	product, err := h.svc.Products.GetProduct(r.Context(), h.companyID(r), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var input core.ProductInput
	if !decodeJSON(w, r, &input) {
		return
	}
	product, err := h.svc.Products.UpdateProduct(r.Context(), h.companyID(r), id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Products.DeleteProduct(r.Context(), h.companyID(r), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var p struct {
		Delta decimal.Decimal `json:"delta"`
	}
	if !decodeJSON(w, r, &p) {
		return
	}
	product, err := h.svc.Products.AdjustStock(r.Context(), h.companyID(r), id, p.Delta)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, product)
}
