package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/selimacar/qrmenu/internal/models"
)

// errNotFound mirrors what the Gorm repositories return for a missing row.
var errNotFound = gorm.ErrRecordNotFound

type fakeEventRepo struct {
	events []models.AnalyticsEvent
}

func (f *fakeEventRepo) CreateEvent(event *models.AnalyticsEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventRepo) GetEventsInRange(restaurantID uint, from, to time.Time) ([]models.AnalyticsEvent, error) {
	var out []models.AnalyticsEvent
	for _, ev := range f.events {
		if ev.RestaurantID == restaurantID && !ev.CreatedAt.Before(from) && ev.CreatedAt.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) CountEvents(restaurantID uint) (int64, error) {
	var n int64
	for _, ev := range f.events {
		if ev.RestaurantID == restaurantID {
			n++
		}
	}
	return n, nil
}

type fakeRestaurantRepo struct {
	restaurants []models.Restaurant
	items       []models.MenuItem
	categories  []models.MenuCategory
}

func (f *fakeRestaurantRepo) CreateRestaurant(r *models.Restaurant) error {
	r.ID = uint(len(f.restaurants) + 1)
	f.restaurants = append(f.restaurants, *r)
	return nil
}

func (f *fakeRestaurantRepo) GetBySlug(slug string) (*models.Restaurant, error) {
	for i := range f.restaurants {
		if f.restaurants[i].Slug == slug {
			return &f.restaurants[i], nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRestaurantRepo) GetCategoriesWithItems(restaurantID uint) ([]models.MenuCategory, error) {
	return f.categories, nil
}

func (f *fakeRestaurantRepo) GetTranslations(restaurantID uint, language string) ([]models.Translation, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) GetUpcomingEvents(restaurantID uint, now time.Time) ([]models.RestaurantEvent, error) {
	return nil, nil
}

func (f *fakeRestaurantRepo) ListItems(restaurantID uint) ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeRestaurantRepo) ListCategories(restaurantID uint) ([]models.MenuCategory, error) {
	return f.categories, nil
}

var baseTime = time.Date(2025, 5, 5, 10, 0, 0, 0, time.UTC) // a Monday

func syntheticEvents() *fakeEventRepo {
	mk := func(eventType, entityType string, entityID uint, sessionID, device, platform, qr string, offset time.Duration) models.AnalyticsEvent {
		return models.AnalyticsEvent{
			RestaurantID: 1,
			EventType:    eventType,
			EntityType:   entityType,
			EntityID:     entityID,
			SessionID:    sessionID,
			DeviceType:   device,
			Platform:     platform,
			QREntrypoint: qr,
			CreatedAt:    baseTime.Add(offset),
		}
	}

	return &fakeEventRepo{events: []models.AnalyticsEvent{
		mk(models.EventTypeQRScan, "", 0, "s1", "mobile", "android", "table-3", 0),
		mk(models.EventTypeView, models.EntityTypeCategory, 10, "s1", "mobile", "android", "", time.Minute),
		mk(models.EventTypeView, models.EntityTypeItem, 101, "s1", "mobile", "android", "", 2*time.Minute),
		mk(models.EventTypeClick, models.EntityTypeItem, 101, "s1", "mobile", "android", "", 3*time.Minute),
		mk(models.EventTypeClick, models.EntityTypeItem, 102, "s1", "mobile", "android", "", 4*time.Minute),
		mk(models.EventTypeQRScan, "", 0, "s2", "desktop", "windows", "table-3", time.Hour),
		mk(models.EventTypeView, models.EntityTypeCategory, 10, "s2", "desktop", "windows", "", time.Hour+time.Minute),
		mk(models.EventTypeClick, models.EntityTypeItem, 102, "s2", "desktop", "windows", "", time.Hour+2*time.Minute),
		mk(models.EventTypeEnter, models.EntityTypeItem, 101, "s2", "desktop", "windows", "", time.Hour+3*time.Minute),
		mk(models.EventTypeLeave, models.EntityTypeItem, 101, "s2", "desktop", "windows", "", time.Hour+3*time.Minute+30*time.Second),
	}}
}

func menuStore() *fakeRestaurantRepo {
	return &fakeRestaurantRepo{
		items: []models.MenuItem{
			{ID: 101, Name: "Menemen"},
			{ID: 102, Name: "Türk Kahvesi"},
			{ID: 103, Name: "Ayran"}, // never appears in events
		},
		categories: []models.MenuCategory{
			{ID: 10, Name: "Kahvaltı"},
		},
	}
}

func TestComputeMetricsCounts(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 3, m.TotalViews)
	assert.Equal(t, 3, m.TotalClicks)
	assert.Equal(t, 2, m.QRScans)
	assert.Equal(t, 2, m.TotalSessions)

	// Per-type counts sum to the number of events in range.
	typed := m.TotalViews + m.TotalClicks + m.QRScans
	assert.Equal(t, 10-2, typed, "views+clicks+scans plus the enter/leave pair cover all events")

	assert.Equal(t, map[string]int{"mobile": 5, "desktop": 5}, m.DeviceBreakdown)
	assert.Equal(t, map[string]int{"android": 5, "windows": 5}, m.PlatformBreakdown)
	assert.Equal(t, map[string]int{"table-3": 2}, m.TrafficSources)
}

func TestComputeMetricsRankings(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, m.TopClickedItems, 2)
	// Equal counts (101 and 102 both clicked... 102 twice, 101 once).
	assert.Equal(t, EntityCount{EntityID: 102, Name: "Türk Kahvesi", Count: 2}, m.TopClickedItems[0])
	assert.Equal(t, EntityCount{EntityID: 101, Name: "Menemen", Count: 1}, m.TopClickedItems[1])

	require.Len(t, m.TopViewedCategories, 1)
	assert.Equal(t, EntityCount{EntityID: 10, Name: "Kahvaltı", Count: 2}, m.TopViewedCategories[0])
}

func TestLeastViewedIncludesZeroCountItems(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	require.NotEmpty(t, m.LeastViewedItems)
	// Ayran has zero view events but exists in the menu store, so it must
	// lead the least-viewed list.
	assert.Equal(t, EntityCount{EntityID: 103, Name: "Ayran", Count: 0}, m.LeastViewedItems[0])
}

func TestBusyBuckets(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 5, m.BusyHours[10])
	assert.Equal(t, 5, m.BusyHours[11])
	// All synthetic events happen on a Monday.
	assert.Equal(t, 10, m.BusyDays[int(time.Monday)])
	assert.Equal(t, 0, m.BusyDays[int(time.Sunday)])
}

func TestAvgTimeSpentFromEnterLeavePairs(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 30.0, m.AvgTimeSpentSec, 0.001)

	// No pairs in range -> zero, not NaN.
	empty := NewAnalyticsService(&fakeEventRepo{}, menuStore())
	m2, err := empty.ComputeMetrics(context.Background(), 1, baseTime, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, m2.AvgTimeSpentSec)
}

func TestComputeMetricsDeterministic(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	first, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	second, err := svc.ComputeMetrics(context.Background(), 1, baseTime.Add(-time.Hour), baseTime.Add(24*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeMetricsRespectsRange(t *testing.T) {
	svc := NewAnalyticsService(syntheticEvents(), menuStore())

	// Only the first five events fall in the first half hour.
	m, err := svc.ComputeMetrics(context.Background(), 1, baseTime, baseTime.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, m.QRScans)
	assert.Equal(t, 2, m.TotalViews)
	assert.Equal(t, 1, m.TotalSessions)
}
