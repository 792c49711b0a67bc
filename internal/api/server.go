// Package api exposes the slot engine over HTTP: slot instance creation,
// visibility reports, activation redirects, the interstitial gate and the
// metrics report.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/slotserve/slotserve/internal/config"
	"github.com/slotserve/slotserve/internal/gate"
	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"
	"github.com/slotserve/slotserve/internal/slot"
)

// ReportSource supplies the ad set the report is built from. The Postgres
// store implements it.
type ReportSource interface {
	LoadAdStats(ctx context.Context) ([]models.Ad, error)
}

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger  *zap.Logger
	Engine  *slot.Engine
	Gate    *gate.Gate
	Reports ReportSource
	Metrics observability.MetricsRegistry
	Config  config.Config
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, engine *slot.Engine, g *gate.Gate, reports ReportSource, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:  logger,
		Engine:  engine,
		Gate:    g,
		Reports: reports,
		Metrics: metrics,
		Config:  cfg,
	}
}

// Routes builds the router. Handlers are wrapped with otelhttp so requests
// carry trace spans when tracing is enabled.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/v1/slots", otelhttp.NewHandler(http.HandlerFunc(s.CreateSlotHandler), "create_slot")).Methods(http.MethodPost)
	r.Handle("/v1/slots/{id}/visibility", otelhttp.NewHandler(http.HandlerFunc(s.VisibilityHandler), "visibility")).Methods(http.MethodPost)
	r.Handle("/v1/slots/{id}/click", otelhttp.NewHandler(http.HandlerFunc(s.ClickHandler), "click")).Methods(http.MethodGet)
	r.Handle("/v1/slots/{id}", otelhttp.NewHandler(http.HandlerFunc(s.UnmountHandler), "unmount")).Methods(http.MethodDelete)

	r.Handle("/v1/interstitial", otelhttp.NewHandler(http.HandlerFunc(s.InterstitialHandler), "interstitial")).Methods(http.MethodPost)
	r.Handle("/v1/interstitial/{id}/dismiss", otelhttp.NewHandler(http.HandlerFunc(s.DismissHandler), "dismiss")).Methods(http.MethodPost)

	r.Handle("/v1/report", otelhttp.NewHandler(http.HandlerFunc(s.ReportHandler), "report")).Methods(http.MethodGet)

	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// writeJSON encodes v with the proper content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encodeJSON(w, v)
}
