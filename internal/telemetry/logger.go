// Package telemetry emits engagement events toward the counting backend.
// Emission is fire-and-forget: callers never block on the outcome and a
// failed event is permanently lost.
package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/slotserve/slotserve/internal/models"
	"github.com/slotserve/slotserve/internal/observability"

	"go.uber.org/zap"
)

// Logger is the engagement event sink used by slot instances.
type Logger interface {
	// Log records a (target, type) engagement. Implementations must not
	// block the caller and must swallow backend failures.
	Log(targetID int, targetType models.TargetType, eventType models.EventType)
}

// HTTPLogger posts events to the backend's log-event endpoint in a
// background goroutine. There is no retry, queueing or backpressure.
type HTTPLogger struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	metrics  observability.MetricsRegistry
	wg       sync.WaitGroup
}

// NewHTTPLogger constructs a logger posting to baseURL's log-event endpoint.
func NewHTTPLogger(baseURL string, timeout time.Duration, logger *zap.Logger, metrics observability.MetricsRegistry) *HTTPLogger {
	return &HTTPLogger{
		endpoint: baseURL + "/log-event",
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		metrics:  metrics,
	}
}

// Log emits the event asynchronously. Backend failures are logged for
// diagnostics and counted, never surfaced to the calling flow.
func (l *HTTPLogger) Log(targetID int, targetType models.TargetType, eventType models.EventType) {
	evt := models.Event{TargetID: targetID, TargetType: targetType, EventType: eventType}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.post(evt); err != nil {
			l.logger.Warn("event dropped",
				zap.Int("target_id", evt.TargetID),
				zap.String("target_type", string(evt.TargetType)),
				zap.String("event_type", string(evt.EventType)),
				zap.Error(err),
			)
			l.metrics.IncrementEventDrops(string(evt.EventType))
			return
		}
		l.metrics.IncrementEvent(string(evt.EventType))
	}()
}

func (l *HTTPLogger) post(evt models.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	resp, err := l.client.Post(l.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("log-event status %d", resp.StatusCode)
	}
	return nil
}

// Flush waits for all in-flight emissions to settle. Only tests and
// shutdown paths should call it; the serving path never does.
func (l *HTTPLogger) Flush() {
	l.wg.Wait()
}
