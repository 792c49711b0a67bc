package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/destination"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/slot"
)

// CreateSlotRequest mounts one slot instance.
type CreateSlotRequest struct {
	Placement models.Placement `json:"placement"`
	Variant   models.Variant   `json:"variant"`
	City      string           `json:"city,omitempty"`
	State     string           `json:"state,omitempty"`
	Search    string           `json:"search,omitempty"`
}

// SlotResponse describes a mounted instance and the paths the page uses to
// report visibility and route activations through the engine.
type SlotResponse struct {
	InstanceID string           `json:"instance_id"`
	Ad         SlotAd           `json:"ad"`
	HTML       string           `json:"html"`
	Target     string           `json:"target,omitempty"`
	TargetKind destination.Kind `json:"target_kind"`
	Tracking   Tracking         `json:"tracking"`
}

// SlotAd is the subset of the ad the page needs.
type SlotAd struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Tracking carries the per-instance engagement paths.
type Tracking struct {
	Visibility string `json:"visibility"`
	Click      string `json:"click"`
	Unmount    string `json:"unmount"`
}

func encodeJSON(w io.Writer, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// CreateSlotHandler handles POST /v1/slots.
func (s *Server) CreateSlotHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/slots"
	const method = http.MethodPost

	var req CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Logger.Warn("decode slot request", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if !req.Placement.Valid() || req.Placement == models.PlacementInterstitial {
		// The interstitial is gate-wrapped and has its own endpoint.
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown placement", http.StatusBadRequest)
		return
	}
	if req.Variant == "" {
		req.Variant = models.VariantHorizontal
	}
	if !req.Variant.Valid() {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown variant", http.StatusBadRequest)
		return
	}

	inst := s.Engine.Mount(r.Context(), req.Placement, req.Variant, req.City, req.State, req.Search)

	s.Logger.Info("slot mounted",
		zap.String("instance_id", inst.ID),
		zap.String("placement", string(req.Placement)),
		zap.Int("ad_id", inst.Current().ID),
	)
	s.Metrics.IncrementRequests(endpoint, method, "200")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	writeJSON(w, http.StatusOK, s.slotResponse(inst))
}

func (s *Server) slotResponse(inst *slot.Instance) SlotResponse {
	ad := inst.Current()
	target, kind := s.Engine.Destinations.Resolve(ad.DestinationRef)
	return SlotResponse{
		InstanceID: inst.ID,
		Ad: SlotAd{
			ID:          ad.ID,
			Title:       ad.Title,
			Description: ad.Description,
			ImageURL:    s.Engine.Images.Resolve(ad.ImageRef),
		},
		HTML:       inst.Render(),
		Target:     target,
		TargetKind: kind,
		Tracking: Tracking{
			Visibility: "/v1/slots/" + inst.ID + "/visibility",
			Click:      "/v1/slots/" + inst.ID + "/click",
			Unmount:    "/v1/slots/" + inst.ID,
		},
	}
}

// VisibilityRequest reports the intersection ratio for an instance region.
type VisibilityRequest struct {
	Ratio float64 `json:"ratio"`
}

// VisibilityHandler handles POST /v1/slots/{id}/visibility.
func (s *Server) VisibilityHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/slots/{id}/visibility"
	const method = http.MethodPost

	inst, ok := s.Engine.Get(mux.Vars(r)["id"])
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown slot instance", http.StatusNotFound)
		return
	}

	var req VisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.Metrics.IncrementRequests(endpoint, method, "400")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	fired := inst.ReportVisibility(req.Ratio)
	s.Metrics.IncrementRequests(endpoint, method, "204")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	if fired {
		s.Logger.Debug("view recorded", zap.String("instance_id", inst.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClickHandler handles GET /v1/slots/{id}/click: it emits the CLICK and
// redirects to the resolved destination, or answers 204 when the ad has
// none (the click is still logged).
func (s *Server) ClickHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/slots/{id}/click"
	const method = http.MethodGet

	inst, ok := s.Engine.Get(mux.Vars(r)["id"])
	if !ok {
		s.Metrics.IncrementRequests(endpoint, method, "404")
		s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
		http.Error(w, "unknown slot instance", http.StatusNotFound)
		return
	}

	target, _ := inst.Activate()
	s.Logger.Info("slot activated",
		zap.String("instance_id", inst.ID),
		zap.Int("ad_id", inst.Current().ID),
		zap.Bool("has_target", target != ""),
	)
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	if target == "" {
		s.Metrics.IncrementRequests(endpoint, method, "204")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.Metrics.IncrementRequests(endpoint, method, "302")
	http.Redirect(w, r, target, http.StatusFound)
}

// UnmountHandler handles DELETE /v1/slots/{id}.
func (s *Server) UnmountHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/v1/slots/{id}"
	const method = http.MethodDelete

	id := mux.Vars(r)["id"]
	s.Engine.Unmount(id)
	s.Metrics.IncrementRequests(endpoint, method, "204")
	s.Metrics.RecordRequestLatency(endpoint, method, time.Since(start))
	w.WriteHeader(http.StatusNoContent)
}
