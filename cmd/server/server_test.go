package server

import (
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimacar/qrmenu/internal/api"
	"github.com/selimacar/qrmenu/internal/models"
)

// A track request that is already being handled when shutdown starts must
// still complete normally: the events channel outlives the HTTP surface.
func TestShutdownDrainsInflightTrackRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)

	events := make(chan models.TrackedEvent, 4)
	stop := make(chan struct{})

	inFlight := make(chan struct{})
	release := make(chan struct{})
	track := api.TrackEventHandler(events, false)

	router := gin.New()
	router.POST("/api/analytics/track", func(c *gin.Context) {
		close(inFlight)
		<-release
		track(c)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: router}
	go srv.Serve(ln)

	status := make(chan int, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/analytics/track",
			"application/json", strings.NewReader(`{"restaurant_id":1,"event_type":"view"}`))
		if err != nil {
			status <- 0
			return
		}
		resp.Body.Close()
		status <- resp.StatusCode
	}()

	<-inFlight
	done := make(chan error, 1)
	go func() { done <- shutdown(srv, stop, events, 2*time.Second) }()
	close(release)

	require.Equal(t, http.StatusOK, <-status)
	require.NoError(t, <-done)

	// The event made it onto the channel, which is now closed and drained.
	ev, ok := <-events
	require.True(t, ok)
	assert.Equal(t, uint(1), ev.RestaurantID)
	_, ok = <-events
	assert.False(t, ok)
}
