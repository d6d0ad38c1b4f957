package api

import (
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selimacar/qrmenu/internal/models"
	"github.com/selimacar/qrmenu/internal/session"
	"github.com/selimacar/qrmenu/internal/throttle"
	"github.com/selimacar/qrmenu/internal/useragent"
)

// TrackEventRequest is the anonymous telemetry payload from the public
// menu. Only restaurant and event type are mandatory; everything derived
// (device, platform, session) is computed server-side.
type TrackEventRequest struct {
	RestaurantID uint   `json:"restaurant_id" binding:"required"`
	EventType    string `json:"event_type" binding:"required"`
	EntityType   string `json:"entity_type"`
	EntityID     uint   `json:"entity_id"`
	QREntrypoint string `json:"qr_entrypoint"`
}

// TrackEventHandler ingests one anonymous analytics event. The event is
// queued on the worker channel with a non-blocking send; under buffer
// pressure the event is dropped rather than delaying the visitor.
//
// This endpoint is deliberately not rate limited: telemetry is
// fire-and-forget and already bounded by the channel buffer.
func TrackEventHandler(events chan<- models.TrackedEvent, secureCookies bool) gin.HandlerFunc {
	// Drops come in bursts when the buffer fills, so the warning is
	// throttled to one line per interval with a running total.
	var dropped atomic.Int64
	warnDropped := throttle.Throttle(func() {
		log.Printf("WARNING: event channel full, %d event(s) dropped so far", dropped.Load())
	}, 30*time.Second)

	return func(c *gin.Context) {
		var req TrackEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "restaurant_id ve event_type zorunludur"})
			return
		}

		sessionID, _ := session.Resolve(c, secureCookies)
		rawUA := c.GetHeader("User-Agent")
		deviceType, platform := useragent.Parse(rawUA)

		ev := models.TrackedEvent{
			RestaurantID: req.RestaurantID,
			EventType:    req.EventType,
			EntityType:   req.EntityType,
			EntityID:     req.EntityID,
			QREntrypoint: req.QREntrypoint,
			SessionID:    sessionID,
			DeviceType:   deviceType,
			Platform:     platform,
			UserAgent:    rawUA,
			Timestamp:    time.Now(),
		}

		select {
		case events <- ev:
		default:
			dropped.Add(1)
			warnDropped()
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
