// Package inventory queries the backend for the candidate ads of a slot.
// The engine never ranks or filters beyond what the backend returns.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/slotserve/slotserve/internal/models"

	"go.uber.org/zap"
)

// Query identifies the (placement, context) pair a slot instance fetches
// candidates for.
type Query struct {
	Placement models.Placement
	City      string
	State     string
	Search    string
}

// Source is the candidate supplier consumed by slots and the interstitial
// gate. The HTTP Client implements it; tests substitute stubs.
type Source interface {
	FetchCandidates(ctx context.Context, q Query) ([]models.Ad, error)
}

// Client fetches candidates over HTTP from the inventory backend.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

var _ Source = (*Client)(nil)

// NewClient constructs a Client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchCandidates returns the ads eligible for q. An empty list is a valid
// response; callers treat fetch errors the same as an empty list.
func (c *Client) FetchCandidates(ctx context.Context, q Query) ([]models.Ad, error) {
	vals := url.Values{}
	vals.Set("placement", string(q.Placement))
	if q.City != "" {
		vals.Set("city", q.City)
	}
	if q.State != "" {
		vals.Set("state", q.State)
	}
	if q.Search != "" {
		vals.Set("search", q.Search)
	}

	endpoint := c.baseURL + "/ads?" + vals.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build inventory request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory fetch: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory status %d", resp.StatusCode)
	}

	var ads []models.Ad
	if err := json.NewDecoder(resp.Body).Decode(&ads); err != nil {
		return nil, fmt.Errorf("decode inventory response: %w", err)
	}
	c.logger.Debug("candidates fetched",
		zap.String("placement", string(q.Placement)),
		zap.Int("count", len(ads)),
	)
	return ads, nil
}
