package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/service"
	"github.com/rs/zerolog"
)

// ExportHandler handles the CSV export endpoint
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamCSV handles GET /v1/export with the same filters as the record list,
// streamed straight to the response
func (h *ExportHandler) StreamCSV(c *gin.Context) {
	filter, err := parseRecordFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("gng_archive_export_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	count, err := h.services.Export.StreamCSV(c.Request.Context(), c.Writer, filter)
	if err != nil {
		// Headers are gone by now; log and cut the stream
		h.log.Error().Err(err).Msg("CSV export failed")
		return
	}

	h.log.Info().Int("count", count).Str("file", filename).Msg("CSV export streamed")
}
