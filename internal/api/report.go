package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/reporting"
)

// ReportHandler handles GET /v1/report: it reads the ad set with its
// server-owned counters and reduces it into the KPI summary.
func (s *Server) ReportHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/report"
	const method = http.MethodGet

	if s.Reports == nil {
		s.Metrics.IncrementRequests(endpoint, method, "503")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "reporting unavailable", http.StatusServiceUnavailable)
		return
	}

	ads, err := s.Reports.LoadAdStats(r.Context())
	if err != nil {
		s.Logger.Error("load ad stats", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "reporting error", http.StatusInternalServerError)
		return
	}

	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, reporting.BuildSummary(ads))
}
