package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/inventory"
	"github.com/slotserve/slotserve/internal/models"
)

// InterstitialRequest asks the gate whether the popup may be shown to a
// viewer. The viewer id keys the cross-session frequency-cap record.
type InterstitialRequest struct {
	ViewerID string `json:"viewer_id"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
}

// InterstitialResponse reports the gate outcome. Eligible is false when the
// cooldown is active or no candidates exist.
type InterstitialResponse struct {
	Eligible bool          `json:"eligible"`
	Slot     *SlotResponse `json:"slot,omitempty"`
}

// InterstitialHandler handles POST /v1/interstitial. It blocks for the
// configured display delay; aborted requests do not consume the cooldown.
func (s *Server) InterstitialHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/interstitial"
	const method = http.MethodPost

	var req InterstitialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ViewerID == "" {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "viewer_id required", http.StatusBadRequest)
		return
	}

	q := inventory.Query{
		Placement: models.PlacementInterstitial,
		City:      req.City,
		State:     req.State,
	}
	ad, err := s.Gate.Present(r.Context(), "popup:"+req.ViewerID, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// The viewer navigated away during the delay.
			return
		}
		s.Logger.Error("interstitial present", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "500")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ad == nil {
		s.Metrics.IncrementRequests(endpoint, method, "200")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		writeJSON(w, http.StatusOK, InterstitialResponse{Eligible: false})
		return
	}

	inst := s.Engine.MountPresented(*ad, models.VariantVertical)
	resp := s.slotResponse(inst)

	s.Logger.Info("interstitial presented",
		zap.String("instance_id", inst.ID),
		zap.Int("ad_id", ad.ID),
	)
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, InterstitialResponse{Eligible: true, Slot: &resp})
}

// DismissHandler handles POST /v1/interstitial/{id}/dismiss. Dismissal
// hides the popup but never rewrites the already-written cap record.
func (s *Server) DismissHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/interstitial/{id}/dismiss"
	const method = http.MethodPost

	s.Engine.Unmount(mux.Vars(r)["id"])
	s.Metrics.IncrementRequests(endpoint, method, "204")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	w.WriteHeader(http.StatusNoContent)
}
