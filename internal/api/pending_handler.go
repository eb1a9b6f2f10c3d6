package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/service"
	"github.com/gng-archive-api/internal/validation"
	"github.com/rs/zerolog"
)

// PendingHandler handles inbox candidate endpoints
type PendingHandler struct {
	services *service.Services
	records  *RecordHandler // shares the multipart draft binding
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPendingHandler creates a new PendingHandler
func NewPendingHandler(services *service.Services, records *RecordHandler, cfg *config.Config, log zerolog.Logger) *PendingHandler {
	return &PendingHandler{
		services: services,
		records:  records,
		cfg:      cfg,
		log:      log.With().Str("handler", "pending").Logger(),
	}
}

// List handles GET /v1/pending: the inbox, minus already-archived titles
func (h *PendingHandler) List(c *gin.Context) {
	pending, err := h.services.Archive.ListPending(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Inbox list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list inbox"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending": pending, "count": len(pending)})
}

// Submit handles POST /v1/pending, ingestion from the scraper or the
// public submission form
func (h *PendingHandler) Submit(c *gin.Context) {
	var p models.PendingScrape
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.services.Review.SubmitPending(c.Request.Context(), &p); err != nil {
		var verr validation.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
			return
		}
		h.log.Error().Err(err).Msg("Candidate submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit candidate"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Review handles GET /v1/pending/:id/review, returning the normalized and translated
// draft the reviewer edits before promotion
func (h *PendingHandler) Review(c *gin.Context) {
	draft, err := h.services.Review.OpenReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.records.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// Promote handles POST /v1/pending/:id/promote: the reviewed draft becomes
// a published archive record and the candidate is cleared
func (h *PendingHandler) Promote(c *gin.Context) {
	draft, evidence, err := h.records.bindDraft(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft.ID = c.Param("id")
	draft.Editing = false

	d, err := h.services.Review.Save(c.Request.Context(), draft, evidence)
	if err != nil {
		h.records.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Delete handles DELETE /v1/pending/:id, rejecting the candidate
func (h *PendingHandler) Delete(c *gin.Context) {
	if err := h.services.Review.DeletePending(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("Candidate delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete candidate"})
		return
	}
	c.Status(http.StatusNoContent)
}
