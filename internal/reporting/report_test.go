package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotserve/slotserve/internal/models"
)

func TestCTR(t *testing.T) {
	testCases := []struct {
		name     string
		views    int64
		clicks   int64
		expected string
	}{
		{"zero views yields 0.00", 0, 0, "0.00"},
		{"zero views with clicks still 0.00", 0, 10, "0.00"},
		{"five percent", 200, 10, "5.00"},
		{"fractional", 3, 1, "33.33"},
		{"all clicks", 10, 10, "100.00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CTR(tc.views, tc.clicks))
		})
	}
}

func TestClientKey(t *testing.T) {
	assert.Equal(t, "Pirelli", ClientKey("Pirelli - Promo Verão"))
	assert.Equal(t, "Shell", ClientKey("Shell"))
	assert.Equal(t, "Ipiranga", ClientKey("Ipiranga - Combo - Troca de Óleo"))
	assert.Equal(t, "", ClientKey(""))
}

func TestBuildSummary(t *testing.T) {
	ads := []models.Ad{
		{ID: 1, Title: "Pirelli - Promo Verão", ViewsCount: 200, ClicksCount: 10},
		{ID: 2, Title: "Pirelli - Pneus Inverno", ViewsCount: 100, ClicksCount: 5},
		{ID: 3, Title: "Shell", ViewsCount: 0, ClicksCount: 0},
	}

	s := BuildSummary(ads)

	assert.Equal(t, int64(300), s.TotalViews)
	assert.Equal(t, int64(15), s.TotalClicks)
	assert.Equal(t, 3, s.ActiveCampaigns)
	// Mean of per-ad CTRs: (5.00 + 5.00 + 0.00) / 3
	assert.Equal(t, "3.33", s.AverageCTR)

	require.Len(t, s.Ads, 3)
	assert.Equal(t, "5.00", s.Ads[0].CTR)
	assert.Equal(t, "0.00", s.Ads[2].CTR)

	require.Len(t, s.Clients, 2)
	pirelli := s.Clients[0]
	assert.Equal(t, "Pirelli", pirelli.Client)
	assert.Equal(t, int64(300), pirelli.Views)
	assert.Equal(t, int64(15), pirelli.Clicks)
	assert.Equal(t, 2, pirelli.Campaigns)
	assert.Equal(t, "5.00", pirelli.CTR)

	shell := s.Clients[1]
	assert.Equal(t, "Shell", shell.Client)
	assert.Equal(t, 1, shell.Campaigns)
	assert.Equal(t, "0.00", shell.CTR)
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := BuildSummary(nil)
	assert.Equal(t, int64(0), s.TotalViews)
	assert.Equal(t, "0.00", s.AverageCTR)
	assert.Equal(t, 0, s.ActiveCampaigns)
	assert.Empty(t, s.Ads)
	assert.Empty(t, s.Clients)
}
