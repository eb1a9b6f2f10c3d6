package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gng-archive-api/internal/config"
	"github.com/gng-archive-api/internal/curation"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/repository"
	"github.com/gng-archive-api/internal/timeline"
	"github.com/rs/zerolog"
)

// archiveService is the concrete implementation of ArchiveService
type archiveService struct {
	repos   *repository.Repositories
	baseURL string
	log     zerolog.Logger
}

// newArchiveService creates a new ArchiveService
func newArchiveService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *archiveService {
	return &archiveService{
		repos:   repos,
		baseURL: strings.TrimRight(cfg.Server.PublicBaseURL, "/"),
		log:     log.With().Str("service", "archive").Logger(),
	}
}

// ListRecords applies search, category filtering and pagination over the
// archive. Facet counts are computed before the search and category
// predicates so the sidebar always shows the full distribution.
func (s *archiveService) ListRecords(ctx context.Context, f models.RecordFilter) (*RecordPage, error) {
	records, err := s.repos.Debunk.List(ctx, repository.ListQuery{
		Published:       f.Published,
		OrderByOccurred: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	categories := curation.CategoryCounts(records)

	filtered := curation.FilterByCategory(records, f.Category)
	filtered = curation.GlobalSearch(filtered, f.Query)

	page := f.Page
	if page <= 0 {
		page = 1
	}
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 20
	}

	return &RecordPage{
		Records:    curation.Paginate(filtered, page, perPage),
		Total:      len(filtered),
		Page:       page,
		PerPage:    perPage,
		Categories: categories,
	}, nil
}

// GetRecord retrieves a single record by ID
func (s *archiveService) GetRecord(ctx context.Context, id string) (*models.Debunk, error) {
	d, err := s.repos.Debunk.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// GetRecordBySlug retrieves a single record by its public slug
func (s *archiveService) GetRecordBySlug(ctx context.Context, slug string) (*models.Debunk, error) {
	d, err := s.repos.Debunk.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

// ListPending returns the inbox with already-archived titles filtered out.
// Both collections are re-read on every call so a promotion immediately
// hides candidates sharing its title.
func (s *archiveService) ListPending(ctx context.Context) ([]*models.PendingScrape, error) {
	pending, err := s.repos.Pending.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	published, err := s.repos.Debunk.List(ctx, repository.ListQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}
	return curation.FilterPendingAgainstPublished(pending, published), nil
}

// Stats computes the landing-page numbers over the full archive.
func (s *archiveService) Stats(ctx context.Context) (*models.ArchiveStats, error) {
	records, err := s.repos.Debunk.List(ctx, repository.ListQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	countries := make(map[string]struct{})
	partners := make(map[string]struct{})
	newThisMonth := 0

	for _, d := range records {
		if d.Country != "" {
			countries[d.Country] = struct{}{}
		}
		if d.Source != "" {
			partners[d.Source] = struct{}{}
		}
		if !d.CreatedAt.Before(monthStart) {
			newThisMonth++
		}
	}

	return &models.ArchiveStats{
		Total:        len(records),
		Countries:    len(countries),
		Partners:     len(partners),
		NewThisMonth: newThisMonth,
	}, nil
}

// Feed builds the public JSON feed of published records, newest first.
func (s *archiveService) Feed(ctx context.Context) (*models.Feed, error) {
	published := true
	records, err := s.repos.Debunk.List(ctx, repository.ListQuery{Published: &published})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	items := make([]models.FeedItem, 0, len(records))
	for _, d := range records {
		items = append(items, models.FeedItem{
			ID:            d.Slug,
			URL:           fmt.Sprintf("%s/debunk/%s", s.baseURL, d.Slug),
			Title:         d.Title,
			ContentText:   d.Summary,
			DatePublished: d.OccurrenceDate,
			Image:         d.MediaURL,
			Verdict:       d.Verdict,
		})
	}

	return &models.Feed{
		Version:     "1.0",
		Title:       "GNG Public Truth Feed",
		HomePageURL: s.baseURL,
		Description: "A public feed of verified AI-generated content and deepfakes.",
		Items:       items,
	}, nil
}

// Timeline buckets published records into a gap-free daily series and
// returns the series plus its scaling maximum.
func (s *archiveService) Timeline(ctx context.Context, w timeline.Window, field timeline.DateField) ([]timeline.DayBucket, int, error) {
	published := true
	records, err := s.repos.Debunk.List(ctx, repository.ListQuery{Published: &published})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list records: %w", err)
	}

	series := timeline.BuildSeries(records, field, w, time.Now())
	return series, timeline.SeriesMax(series), nil
}
