// Package workers persists analytics events asynchronously so the public
// tracking endpoint never waits on the database.
package workers

import (
	"log"

	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/repository"
)

// StartEventWorkers launches a pool of goroutines consuming tracked events
// from the shared channel. Workers exit when the channel is closed.
func StartEventWorkers(workerCount int, events <-chan models.TrackedEvent, eventRepo repository.EventRepository) {
	log.Printf("Starting %d analytics event worker(s)...", workerCount)
	for i := 0; i < workerCount; i++ {
		go eventWorker(events, eventRepo)
	}
}

func eventWorker(events <-chan models.TrackedEvent, eventRepo repository.EventRepository) {
	for ev := range events {
		row := &models.AnalyticsEvent{
			RestaurantID: ev.RestaurantID,
			EventType:    ev.EventType,
			EntityType:   ev.EntityType,
			EntityID:     ev.EntityID,
			QREntrypoint: ev.QREntrypoint,
			SessionID:    ev.SessionID,
			DeviceType:   ev.DeviceType,
			Platform:     ev.Platform,
			UserAgent:    ev.UserAgent,
			CreatedAt:    ev.Timestamp,
		}
		if err := eventRepo.CreateEvent(row); err != nil {
			// Telemetry is best-effort: log and keep consuming.
			log.Printf("ERROR: Failed to save %s event for restaurant %d: %v",
				ev.EventType, ev.RestaurantID, err)
		}
	}
}
