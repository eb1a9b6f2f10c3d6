package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/service"
	"github.com/gng-archive-api/internal/validation"
	"github.com/rs/zerolog"
)

// RecordHandler handles archive record endpoints
type RecordHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "record").Logger(),
	}
}

// List handles GET /v1/records?q=&category=&published=&page=&per_page=
func (h *RecordHandler) List(c *gin.Context) {
	filter, err := parseRecordFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.services.Archive.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Record list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list records"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	d, err := h.services.Archive.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetBySlug handles GET /v1/records/slug/:slug
func (h *RecordHandler) GetBySlug(c *gin.Context) {
	d, err := h.services.Archive.GetRecordBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// Create handles POST /v1/records, manual creation from the admin form,
// multipart so an evidence snapshot can ride along.
func (h *RecordHandler) Create(c *gin.Context) {
	draft, evidence, err := h.bindDraft(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft.Editing = false

	d, err := h.services.Review.CreateManual(c.Request.Context(), draft, evidence)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// Update handles PUT /v1/records/:id, editing in place with publish state preserved
func (h *RecordHandler) Update(c *gin.Context) {
	draft, evidence, err := h.bindDraft(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft.ID = c.Param("id")
	draft.Editing = true

	d, err := h.services.Review.Save(c.Request.Context(), draft, evidence)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// TogglePublish handles POST /v1/records/:id/publish
func (h *RecordHandler) TogglePublish(c *gin.Context) {
	published, err := h.services.Review.TogglePublish(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "is_published": published})
}

// Delete handles DELETE /v1/records/:id
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.services.Review.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Edit handles GET /v1/records/:id/edit, returning the normalized editable draft
func (h *RecordHandler) Edit(c *gin.Context) {
	draft, err := h.services.Review.OpenEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// bindDraft reads a draft from either a JSON body or a multipart form with
// an optional "evidence" file part.
func (h *RecordHandler) bindDraft(c *gin.Context) (*models.ReviewDraft, *service.Upload, error) {
	contentType := c.ContentType()

	if contentType == "application/json" {
		var draft models.ReviewDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			return nil, nil, fmt.Errorf("invalid request body")
		}
		return &draft, nil, nil
	}

	// Multipart / form-encoded path
	draft := &models.ReviewDraft{
		Title:          c.PostForm("title"),
		Summary:        c.PostForm("summary"),
		Verdict:        c.PostForm("verdict"),
		Severity:       c.PostForm("severity"),
		Category:       c.PostForm("category"),
		Platform:       c.PostForm("platform"),
		Country:        c.PostForm("country"),
		Source:         c.PostForm("source"),
		SourceLink:     c.PostForm("source_link"),
		MediaURL:       c.PostForm("media_url"),
		Slug:           c.PostForm("slug"),
		Method:         c.PostForm("method"),
		OccurrenceDate: c.PostForm("occurrence_date"),
	}

	file, header, err := c.Request.FormFile("evidence")
	if err != nil {
		return draft, nil, nil // no file attached
	}
	if header.Size > h.cfg.Storage.MaxUploadSize {
		file.Close()
		return nil, nil, fmt.Errorf("evidence file too large, max size is %d MB",
			h.cfg.Storage.MaxUploadSize/(1024*1024))
	}
	return draft, &service.Upload{Reader: file, Filename: header.Filename}, nil
}

// respondError maps workflow errors onto HTTP statuses.
func (h *RecordHandler) respondError(c *gin.Context, err error) {
	var verr validation.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, service.ErrDuplicateTitle):
		c.JSON(http.StatusConflict, gin.H{"error": service.ErrDuplicateTitle.Error()})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Record operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "operation failed, changes were not saved"})
	}
}

// parseRecordFilter reads the shared list/search/export query parameters.
func parseRecordFilter(c *gin.Context) (models.RecordFilter, error) {
	f := models.RecordFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
	}

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("published must be true or false")
		}
		f.Published = &published
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return f, fmt.Errorf("page must be a positive integer")
		}
		f.Page = page
	}
	if raw := c.Query("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage < 1 || perPage > 200 {
			return f, fmt.Errorf("per_page must be between 1 and 200")
		}
		f.PerPage = perPage
	}
	if strings.EqualFold(f.Category, "All") {
		f.Category = ""
	}
	return f, nil
}
