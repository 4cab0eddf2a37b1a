// internal/adapters/in/http/handlers/analytics_handler.go
package handlers

import (
	"net/http"
	"strings"

	"quickcheckout/internal/application/query"
)

// AnalyticsHandler serves GET /analytics/daily: the chart input only,
// rendering stays in the frontend.
type AnalyticsHandler struct {
	q *query.SalesSummaryQuery
}

func NewAnalyticsHandler(q *query.SalesSummaryQuery) http.Handler {
	return &AnalyticsHandler{q: q}
}

func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || !strings.HasSuffix(strings.TrimRight(r.URL.Path, "/"), "daily") {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	buckets, err := h.q.Daily(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}
