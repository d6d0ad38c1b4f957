package services

import (
	"context"
	"sort"
	"time"

	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/repository"
)

// topN bounds the ranked lists in the dashboard metrics.
const topN = 5

// EntityCount is one row of a ranked list.
type EntityCount struct {
	EntityID uint   `json:"entity_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// AggregatedMetrics is the derived dashboard view for one restaurant and
// date range. It is recomputed on every query and must be deterministic
// for a fixed underlying event set.
type AggregatedMetrics struct {
	RestaurantID uint      `json:"restaurant_id"`
	From         time.Time `json:"from"`
	To           time.Time `json:"to"`

	TotalViews    int `json:"total_views"`
	TotalClicks   int `json:"total_clicks"`
	QRScans       int `json:"qr_scans"`
	TotalSessions int `json:"total_sessions"`

	TopClickedItems     []EntityCount `json:"top_clicked_items"`
	TopViewedCategories []EntityCount `json:"top_viewed_categories"`
	LeastViewedItems    []EntityCount `json:"least_viewed_items"`

	DeviceBreakdown   map[string]int `json:"device_breakdown"`
	PlatformBreakdown map[string]int `json:"platform_breakdown"`
	TrafficSources    map[string]int `json:"traffic_sources"`

	BusyHours [24]int `json:"busy_hours"` // hour of day, 0-23
	BusyDays  [7]int  `json:"busy_days"`  // day of week, 0=Sunday

	AvgTimeSpentSec float64 `json:"avg_time_spent_sec"`
}

// Aggregator computes dashboard metrics. The row-scan implementation below
// walks event rows in process; a pre-aggregating or columnar backend can
// replace it behind this interface without touching the handlers.
type Aggregator interface {
	ComputeMetrics(ctx context.Context, restaurantID uint, from, to time.Time) (*AggregatedMetrics, error)
}

// AnalyticsService is the row-scan Aggregator over the event repository.
// It also joins the full menu-item set so items with zero events still
// surface in the least-viewed list.
type AnalyticsService struct {
	eventRepo      repository.EventRepository
	restaurantRepo repository.RestaurantRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(eventRepo repository.EventRepository, restaurantRepo repository.RestaurantRepository) *AnalyticsService {
	return &AnalyticsService{eventRepo: eventRepo, restaurantRepo: restaurantRepo}
}

// pairKey identifies one session's engagement with one entity, used to
// match enter/leave event pairs.
type pairKey struct {
	sessionID  string
	entityType string
	entityID   uint
}

// ComputeMetrics implements Aggregator.
func (s *AnalyticsService) ComputeMetrics(ctx context.Context, restaurantID uint, from, to time.Time) (*AggregatedMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.GetEventsInRange(restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	items, err := s.restaurantRepo.ListItems(restaurantID)
	if err != nil {
		return nil, err
	}
	categories, err := s.restaurantRepo.ListCategories(restaurantID)
	if err != nil {
		return nil, err
	}

	itemNames := make(map[uint]string, len(items))
	for _, item := range items {
		itemNames[item.ID] = item.Name
	}
	categoryNames := make(map[uint]string, len(categories))
	for _, cat := range categories {
		categoryNames[cat.ID] = cat.Name
	}

	m := &AggregatedMetrics{
		RestaurantID:      restaurantID,
		From:              from,
		To:                to,
		DeviceBreakdown:   make(map[string]int),
		PlatformBreakdown: make(map[string]int),
		TrafficSources:    make(map[string]int),
	}

	sessions := make(map[string]struct{})
	itemClicks := make(map[uint]int)
	itemViews := make(map[uint]int)
	categoryViews := make(map[uint]int)
	pendingEnters := make(map[pairKey][]time.Time)
	var totalDwell time.Duration
	var dwellPairs int

	for _, ev := range events {
		switch ev.EventType {
		case models.EventTypeView:
			m.TotalViews++
			if ev.EntityType == models.EntityTypeItem {
				itemViews[ev.EntityID]++
			}
			if ev.EntityType == models.EntityTypeCategory {
				categoryViews[ev.EntityID]++
			}
		case models.EventTypeClick:
			m.TotalClicks++
			if ev.EntityType == models.EntityTypeItem {
				itemClicks[ev.EntityID]++
			}
		case models.EventTypeQRScan:
			m.QRScans++
		case models.EventTypeEnter:
			key := pairKey{ev.SessionID, ev.EntityType, ev.EntityID}
			pendingEnters[key] = append(pendingEnters[key], ev.CreatedAt)
		case models.EventTypeLeave:
			key := pairKey{ev.SessionID, ev.EntityType, ev.EntityID}
			if stack := pendingEnters[key]; len(stack) > 0 {
				entered := stack[0]
				pendingEnters[key] = stack[1:]
				totalDwell += ev.CreatedAt.Sub(entered)
				dwellPairs++
			}
		}

		if ev.SessionID != "" {
			sessions[ev.SessionID] = struct{}{}
		}
		if ev.DeviceType != "" {
			m.DeviceBreakdown[ev.DeviceType]++
		}
		if ev.Platform != "" {
			m.PlatformBreakdown[ev.Platform]++
		}
		if ev.QREntrypoint != "" {
			m.TrafficSources[ev.QREntrypoint]++
		}

		m.BusyHours[ev.CreatedAt.Hour()]++
		m.BusyDays[int(ev.CreatedAt.Weekday())]++
	}

	m.TotalSessions = len(sessions)
	if dwellPairs > 0 {
		m.AvgTimeSpentSec = totalDwell.Seconds() / float64(dwellPairs)
	}

	m.TopClickedItems = topCounts(itemClicks, itemNames, topN)
	m.TopViewedCategories = topCounts(categoryViews, categoryNames, topN)
	m.LeastViewedItems = leastCounts(itemViews, itemNames, topN)

	return m, nil
}

// topCounts ranks counted entities descending, resolving names from the
// menu store; ties break on name ascending then ID so output is stable.
func topCounts(counts map[uint]int, names map[uint]string, n int) []EntityCount {
	ranked := make([]EntityCount, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, EntityCount{EntityID: id, Name: names[id], Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// leastCounts ranks the full entity set ascending by event count. Entities
// absent from the counts map enter with zero, so an item nobody viewed is
// still reported.
func leastCounts(counts map[uint]int, names map[uint]string, n int) []EntityCount {
	ranked := make([]EntityCount, 0, len(names))
	for id, name := range names {
		ranked = append(ranked, EntityCount{EntityID: id, Name: name, Count: counts[id]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count < ranked[j].Count
		}
		if ranked[i].Name != ranked[j].Name {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].EntityID < ranked[j].EntityID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
