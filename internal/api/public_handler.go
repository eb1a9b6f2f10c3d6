package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/service"
	"github.com/gng-archive-api/internal/timeline"
	"github.com/rs/zerolog"
)

// PublicHandler serves the read-only public surface: feed, stats, timeline,
// and the change-event stream.
type PublicHandler struct {
	services *service.Services
	hub      *realtime.Hub
	log      zerolog.Logger
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(services *service.Services, hub *realtime.Hub, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{
		services: services,
		hub:      hub,
		log:      log.With().Str("handler", "public").Logger(),
	}
}

// Feed handles GET /feed.json
func (h *PublicHandler) Feed(c *gin.Context) {
	feed, err := h.services.Archive.Feed(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Feed build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}
	c.Header("Cache-Control", "s-maxage=3600, stale-while-revalidate")
	c.JSON(http.StatusOK, feed)
}

// Stats handles GET /v1/stats
func (h *PublicHandler) Stats(c *gin.Context) {
	stats, err := h.services.Archive.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Stats computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Timeline handles GET /v1/timeline?days=30 | ?mode=full, &field=occurrence|created
func (h *PublicHandler) Timeline(c *gin.Context) {
	w := timeline.Window{Days: 30}
	if c.Query("mode") == "full" {
		w.Days = 0
	} else if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > 366 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		w.Days = days
	}

	field := timeline.ByOccurrence
	switch c.Query("field") {
	case "", "occurrence":
	case "created":
		field = timeline.ByCreated
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "field must be occurrence or created"})
		return
	}

	series, max, err := h.services.Archive.Timeline(c.Request.Context(), w, field)
	if err != nil {
		h.log.Error().Err(err).Msg("Timeline build failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build timeline"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series, "max": max})
}

// Events handles GET /v1/events?table=, a server-sent change stream.
// Clients re-query on every event; the payload promises nothing more than
// "something changed".
func (h *PublicHandler) Events(c *gin.Context) {
	table := c.Query("table")
	if table != "" && table != realtime.TableDebunks && table != realtime.TablePending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table"})
		return
	}

	events, cancel := h.hub.Subscribe(table)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			fmt.Fprintf(w, "event: change\ndata: {\"table\":%q,\"op\":%q,\"id\":%q}\n\n",
				ev.Table, ev.Op, ev.ID)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
