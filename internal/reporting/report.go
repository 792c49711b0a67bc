// Package reporting rolls raw per-ad view/click counters into campaign and
// client level KPIs for the reporting surface. Everything here is a pure
// reduction over the ad set; no state is held between calls.
package reporting

import (
	"sort"
	"strconv"
	"strings"

	"github.com/slotserve/slotserve/internal/models"
)

// CTR formats clicks/views as a percentage with two decimals. Zero views
// yields "0.00" rather than a division fault.
func CTR(views, clicks int64) string {
	if views == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(clicks)/float64(views)*100, 'f', 2, 64)
}

// ClientKey derives the grouping key for an ad: the segment left of the
// first hyphen in its title, or the whole title when no hyphen exists.
// This is a presentation-layer heuristic, not a stored relationship.
func ClientKey(title string) string {
	if i := strings.Index(title, "-"); i >= 0 {
		return strings.TrimSpace(title[:i])
	}
	return strings.TrimSpace(title)
}

// AdMetrics is the per-campaign row of the report.
type AdMetrics struct {
	AdID   int    `json:"ad_id"`
	Title  string `json:"title"`
	Views  int64  `json:"views"`
	Clicks int64  `json:"clicks"`
	CTR    string `json:"ctr"`
}

// ClientMetrics accumulates per-client views, clicks and campaign count.
type ClientMetrics struct {
	Client    string `json:"client"`
	Views     int64  `json:"views"`
	Clicks    int64  `json:"clicks"`
	Campaigns int    `json:"campaigns"`
	CTR       string `json:"ctr"`
}

// Summary is the full report for a scope.
type Summary struct {
	TotalViews      int64           `json:"total_views"`
	TotalClicks     int64           `json:"total_clicks"`
	AverageCTR      string          `json:"average_ctr"`
	ActiveCampaigns int             `json:"active_campaigns"`
	Ads             []AdMetrics     `json:"ads"`
	Clients         []ClientMetrics `json:"clients"`
}

// BuildSummary reduces the ad set into the report. It must be recomputed
// whenever the set changes.
func BuildSummary(ads []models.Ad) Summary {
	s := Summary{
		ActiveCampaigns: len(ads),
		Ads:             make([]AdMetrics, 0, len(ads)),
	}

	groups := make(map[string]*ClientMetrics)
	var ctrSum float64
	for _, ad := range ads {
		s.TotalViews += ad.ViewsCount
		s.TotalClicks += ad.ClicksCount
		if ad.ViewsCount > 0 {
			ctrSum += float64(ad.ClicksCount) / float64(ad.ViewsCount) * 100
		}

		s.Ads = append(s.Ads, AdMetrics{
			AdID:   ad.ID,
			Title:  ad.Title,
			Views:  ad.ViewsCount,
			Clicks: ad.ClicksCount,
			CTR:    CTR(ad.ViewsCount, ad.ClicksCount),
		})

		key := ClientKey(ad.Title)
		g, ok := groups[key]
		if !ok {
			g = &ClientMetrics{Client: key}
			groups[key] = g
		}
		g.Views += ad.ViewsCount
		g.Clicks += ad.ClicksCount
		g.Campaigns++
	}

	if len(ads) > 0 {
		s.AverageCTR = strconv.FormatFloat(ctrSum/float64(len(ads)), 'f', 2, 64)
	} else {
		s.AverageCTR = "0.00"
	}

	s.Clients = make([]ClientMetrics, 0, len(groups))
	for _, g := range groups {
		g.CTR = CTR(g.Views, g.Clicks)
		s.Clients = append(s.Clients, *g)
	}
	sort.Slice(s.Clients, func(a, b int) bool {
		return s.Clients[a].Client < s.Clients[b].Client
	})
	return s
}
