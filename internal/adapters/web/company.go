package web

import (
	"net/http"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.svc.Company.GetCompany(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, company)
}

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Company.GetSettings(r.Context(), h.companyID(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, settings)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var input core.SettingsInput
	if !decodeJSON(w, r, &input) {
		return
	}
	company, err := h.svc.Company.UpdateSettings(r.Context(), h.companyID(r), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, company)
}
