package web

import (
	"net/http"
	"time"
)

// reportRange resolves the from/to query parameters, defaulting to the
// trailing 30 days.
func reportRange(r *http.Request) (time.Time, time.Time) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	if t := queryDate(r, "to"); t != nil {
		to = *t
	}
	if t := queryDate(r, "from"); t != nil {
		from = *t
	}
	return from, to
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	from, to := reportRange(r)
	summary, err := h.svc.Reports.GetDashboardSummary(r.Context(), h.companyID(r), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	from, to := reportRange(r)
	days, err := h.svc.Reports.GetSalesByDay(r.Context(), h.companyID(r), from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, days)
}
