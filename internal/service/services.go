package service

import (
	"context"
	"errors"
	"io"

	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/repository"
	"github.com/gng-archive-api/internal/storage"
	"github.com/gng-archive-api/internal/timeline"
	"github.com/rs/zerolog"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateTitle = errors.New("a record with this title already exists")
)

// Upload is an evidence file attached to a save.
type Upload struct {
	Reader   io.Reader
	Filename string
}

// Translator is the best-effort translation collaborator.
type Translator interface {
	ToEnglish(ctx context.Context, text string) string
}

// Archiver is the best-effort archival-mirror collaborator.
type Archiver interface {
	Submit(ctx context.Context, url string) string
}

// Notifier receives change events after successful mutations.
type Notifier interface {
	Publish(ev realtime.Event)
}

// ReviewService drives the inbox review / publish workflow.
type ReviewService interface {
	OpenReview(ctx context.Context, pendingID string) (*models.ReviewDraft, error)
	OpenEdit(ctx context.Context, recordID string) (*models.ReviewDraft, error)
	Save(ctx context.Context, draft *models.ReviewDraft, evidence *Upload) (*models.Debunk, error)
	CreateManual(ctx context.Context, draft *models.ReviewDraft, evidence *Upload) (*models.Debunk, error)
	TogglePublish(ctx context.Context, recordID string) (bool, error)
	DeleteRecord(ctx context.Context, recordID string) error
	DeletePending(ctx context.Context, pendingID string) error
	SubmitPending(ctx context.Context, p *models.PendingScrape) error
	Close()
}

// RecordPage is one page of the searchable archive plus its facets.
type RecordPage struct {
	Records    []*models.Debunk       `json:"records"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PerPage    int                    `json:"per_page"`
	Categories []models.CategoryCount `json:"categories"`
}

// ArchiveService serves the read side: lists, search, facets, feed, stats,
// and the activity timeline.
type ArchiveService interface {
	ListRecords(ctx context.Context, f models.RecordFilter) (*RecordPage, error)
	GetRecord(ctx context.Context, id string) (*models.Debunk, error)
	GetRecordBySlug(ctx context.Context, slug string) (*models.Debunk, error)
	ListPending(ctx context.Context) ([]*models.PendingScrape, error)
	Stats(ctx context.Context) (*models.ArchiveStats, error)
	Feed(ctx context.Context) (*models.Feed, error)
	Timeline(ctx context.Context, w timeline.Window, field timeline.DateField) ([]timeline.DayBucket, int, error)
}

// ExportService streams filtered records out as CSV.
type ExportService interface {
	StreamCSV(ctx context.Context, w io.Writer, f models.RecordFilter) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Review  ReviewService
	Archive ArchiveService
	Export  ExportService
}

// NewServices wires the services to the repositories and collaborators.
func NewServices(
	repos *repository.Repositories,
	evidence storage.EvidenceStore,
	translator Translator,
	archiver Archiver,
	notifier Notifier,
	cfg *config.Config,
	log zerolog.Logger,
) *Services {
	archiveSvc := newArchiveService(repos, cfg, log)
	reviewSvc := newReviewService(repos, evidence, translator, archiver, notifier, log)
	exportSvc := newExportService(repos, log)

	return &Services{
		Review:  reviewSvc,
		Archive: archiveSvc,
		Export:  exportSvc,
	}
}
