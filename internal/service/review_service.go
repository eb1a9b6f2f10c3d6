package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gng-archive-api/internal/curation"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/realtime"
	"github.com/gng-archive-api/internal/repository"
	"github.com/gng-archive-api/internal/storage"
	"github.com/gng-archive-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reviewService is the concrete implementation of ReviewService
type reviewService struct {
	repos      *repository.Repositories
	evidence   storage.EvidenceStore
	translator Translator
	archiver   Archiver
	notifier   Notifier
	log        zerolog.Logger

	// Tracks detached mirror submissions so shutdown can wait for them.
	mirrors sync.WaitGroup
}

// newReviewService creates a new ReviewService
func newReviewService(
	repos *repository.Repositories,
	evidence storage.EvidenceStore,
	translator Translator,
	archiver Archiver,
	notifier Notifier,
	log zerolog.Logger,
) *reviewService {
	return &reviewService{
		repos:      repos,
		evidence:   evidence,
		translator: translator,
		archiver:   archiver,
		notifier:   notifier,
		log:        log.With().Str("service", "review").Logger(),
	}
}

// Close waits for in-flight mirror submissions to finish.
func (s *reviewService) Close() {
	s.mirrors.Wait()
}

// OpenReview loads an inbox candidate into an editable draft: missing fields
// defaulted, date truncated to a calendar day, Bengali text translated on a
// best-effort basis.
func (s *reviewService) OpenReview(ctx context.Context, pendingID string) (*models.ReviewDraft, error) {
	p, err := s.repos.Pending.GetByID(ctx, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	draft := &models.ReviewDraft{
		ID:             p.ID,
		Title:          s.translator.ToEnglish(ctx, p.Title),
		Summary:        s.translator.ToEnglish(ctx, p.Summary),
		Verdict:        orDefault(p.Verdict, models.DefaultVerdict),
		Severity:       orDefault(p.Severity, models.DefaultSeverity),
		Category:       orDefault(p.Category, models.DefaultCategory),
		Platform:       orDefault(p.Platform, models.DefaultPlatform),
		Country:        orDefault(p.Country, models.DefaultCountry),
		Source:         resolveSource(p.Source, p.SourceLink),
		SourceLink:     p.SourceLink,
		MediaURL:       p.MediaURL,
		OccurrenceDate: calendarDay(p.OccurrenceDate),
		Editing:        false,
	}

	s.log.Info().Str("pending_id", p.ID).Msg("Candidate opened for review")
	return draft, nil
}

// OpenEdit loads a published record into a draft. No re-translation: the
// record is already in its display language.
func (s *reviewService) OpenEdit(ctx context.Context, recordID string) (*models.ReviewDraft, error) {
	d, err := s.repos.Debunk.GetByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	if d == nil {
		return nil, ErrNotFound
	}

	return &models.ReviewDraft{
		ID:             d.ID,
		Title:          d.Title,
		Summary:        d.Summary,
		Verdict:        orDefault(d.Verdict, models.DefaultVerdict),
		Severity:       orDefault(d.Severity, models.DefaultSeverity),
		Category:       orDefault(d.Category, models.DefaultCategory),
		Platform:       orDefault(d.Platform, models.DefaultPlatform),
		Country:        orDefault(d.Country, models.DefaultCountry),
		Source:         resolveSource(d.Source, d.SourceLink),
		SourceLink:     d.SourceLink,
		MediaURL:       d.MediaURL,
		Slug:           d.Slug,
		Method:         d.Method,
		OccurrenceDate: calendarDay(d.OccurrenceDate),
		Editing:        true,
	}, nil
}

// Save persists a draft: update-in-place when editing, insert-plus-promote
// otherwise. Evidence upload failure aborts before any record mutation.
func (s *reviewService) Save(ctx context.Context, draft *models.ReviewDraft, evidence *Upload) (*models.Debunk, error) {
	if errs := validation.ValidateDraft(draft); len(errs) > 0 {
		return nil, errs[0]
	}

	if evidence != nil {
		url, err := s.evidence.Save(ctx, evidence.Reader, evidence.Filename)
		if err != nil {
			return nil, fmt.Errorf("evidence upload failed: %w", err)
		}
		draft.MediaURL = url
	}

	if draft.Editing {
		return s.updateExisting(ctx, draft)
	}
	return s.promote(ctx, draft)
}

// CreateManual archives a record straight from the admin form, with no
// source candidate. The duplicate-title guard runs before the insert.
func (s *reviewService) CreateManual(ctx context.Context, draft *models.ReviewDraft, evidence *Upload) (*models.Debunk, error) {
	if errs := validation.ValidateDraft(draft); len(errs) > 0 {
		return nil, errs[0]
	}
	if draft.Method == "" {
		draft.Method = models.DefaultMethod
	}

	if evidence != nil {
		url, err := s.evidence.Save(ctx, evidence.Reader, evidence.Filename)
		if err != nil {
			return nil, fmt.Errorf("evidence upload failed: %w", err)
		}
		draft.MediaURL = url
	}

	draft.Editing = false
	draft.ID = "" // no candidate to clean up
	return s.promote(ctx, draft)
}

// updateExisting rewrites a record in place, preserving its publish state.
func (s *reviewService) updateExisting(ctx context.Context, draft *models.ReviewDraft) (*models.Debunk, error) {
	existing, err := s.repos.Debunk.GetByID(ctx, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	d := draftToRecord(draft)
	d.ID = existing.ID
	d.Slug = existing.Slug
	d.WaybackURL = existing.WaybackURL
	d.IsPublished = existing.IsPublished
	d.IsPermanentlyStored = true
	d.ArchivedAt = &now

	if err := s.repos.Debunk.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	s.log.Info().Str("id", d.ID).Str("title", d.Title).Msg("Archive record updated")
	s.notify(realtime.TableDebunks, "update", d.ID)
	s.mirrorLater(d.ID, d.SourceLink, d.WaybackURL)
	return d, nil
}

// promote inserts a new published record, then clears the source candidate
// if there is one. A failed candidate-delete is tolerated: the dedup filter
// hides the orphan from the inbox until it is cleaned up.
func (s *reviewService) promote(ctx context.Context, draft *models.ReviewDraft) (*models.Debunk, error) {
	published, err := s.repos.Debunk.List(ctx, repository.ListQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if curation.IsDuplicateTitle(draft.Title, published) {
		return nil, ErrDuplicateTitle
	}

	now := time.Now()
	d := draftToRecord(draft)
	d.Slug = draft.Slug
	if d.Slug == "" {
		d.Slug = curation.SlugWithSuffix(draft.Title, now)
	}
	d.IsPublished = true
	d.IsPermanentlyStored = true
	d.ArchivedAt = &now

	if err := s.repos.Debunk.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	if draft.ID != "" {
		if err := s.repos.Pending.Delete(ctx, draft.ID); err != nil {
			// Accepted inconsistency: the candidate stays in the table but
			// the title filter keeps it out of the inbox view.
			s.log.Warn().Err(err).Str("pending_id", draft.ID).
				Msg("Candidate delete failed after promotion")
		} else {
			s.notify(realtime.TablePending, "delete", draft.ID)
		}
	}

	s.log.Info().Str("id", d.ID).Str("slug", d.Slug).Str("title", d.Title).
		Msg("Record promoted to archive")
	s.notify(realtime.TableDebunks, "insert", d.ID)
	s.mirrorLater(d.ID, d.SourceLink, "")
	return d, nil
}

// TogglePublish flips visibility and reports the new state.
func (s *reviewService) TogglePublish(ctx context.Context, recordID string) (bool, error) {
	published, err := s.repos.Debunk.TogglePublished(ctx, recordID)
	if err != nil {
		return false, err
	}
	s.log.Info().Str("id", recordID).Bool("published", published).Msg("Publish state toggled")
	s.notify(realtime.TableDebunks, "update", recordID)
	return published, nil
}

// DeleteRecord removes an archive record permanently. Confirmation is the
// client's responsibility; this call is the irreversible part.
func (s *reviewService) DeleteRecord(ctx context.Context, recordID string) error {
	if err := s.repos.Debunk.Delete(ctx, recordID); err != nil {
		return err
	}
	s.log.Info().Str("id", recordID).Msg("Archive record deleted")
	s.notify(realtime.TableDebunks, "delete", recordID)
	return nil
}

// DeletePending rejects an inbox candidate.
func (s *reviewService) DeletePending(ctx context.Context, pendingID string) error {
	if err := s.repos.Pending.Delete(ctx, pendingID); err != nil {
		return err
	}
	s.log.Info().Str("id", pendingID).Msg("Candidate rejected")
	s.notify(realtime.TablePending, "delete", pendingID)
	return nil
}

// SubmitPending ingests a candidate from the external scraper or the public
// submission form.
func (s *reviewService) SubmitPending(ctx context.Context, p *models.PendingScrape) error {
	if errs := validation.ValidatePendingSubmission(p); len(errs) > 0 {
		return errs[0]
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.repos.Pending.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	s.log.Info().Str("id", p.ID).Str("title", p.Title).Msg("Candidate submitted")
	s.notify(realtime.TablePending, "insert", p.ID)
	return nil
}

// mirrorLater submits the source link to the archival mirror in a detached
// goroutine and patches the record afterwards. The triggering save has
// already returned by the time this runs; failures are logged and dropped.
func (s *reviewService) mirrorLater(recordID, sourceLink, existingMirror string) {
	if sourceLink == "" || existingMirror != "" {
		return
	}

	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		mirror := s.archiver.Submit(ctx, sourceLink)
		if mirror == "" {
			return
		}
		if err := s.repos.Debunk.SetWaybackURL(ctx, recordID, mirror); err != nil {
			s.log.Warn().Err(err).Str("id", recordID).Msg("Failed to patch mirror URL")
			return
		}
		s.notify(realtime.TableDebunks, "update", recordID)
	}()
}

func (s *reviewService) notify(table, op, id string) {
	if s.notifier != nil {
		s.notifier.Publish(realtime.Event{Table: table, Op: op, ID: id})
	}
}

// draftToRecord copies the editable fields of a draft onto a record.
func draftToRecord(draft *models.ReviewDraft) *models.Debunk {
	return &models.Debunk{
		Title:          strings.TrimSpace(draft.Title),
		Summary:        draft.Summary,
		Verdict:        orDefault(draft.Verdict, models.DefaultVerdict),
		Severity:       strings.ToLower(orDefault(draft.Severity, models.DefaultSeverity)),
		Category:       orDefault(draft.Category, models.DefaultCategory),
		Platform:       orDefault(draft.Platform, models.DefaultPlatform),
		Country:        orDefault(draft.Country, models.DefaultCountry),
		Source:         resolveSource(draft.Source, draft.SourceLink),
		SourceLink:     draft.SourceLink,
		MediaURL:       draft.MediaURL,
		Method:         draft.Method,
		OccurrenceDate: calendarDay(draft.OccurrenceDate),
	}
}

// calendarDay truncates any date-ish string to YYYY-MM-DD, falling back to
// today when it is absent or unreadable.
func calendarDay(raw string) string {
	if len(raw) >= 10 {
		if _, err := time.Parse("2006-01-02", raw[:10]); err == nil {
			return raw[:10]
		}
	}
	return time.Now().Format("2006-01-02")
}

func resolveSource(source, sourceLink string) string {
	if source != "" {
		return source
	}
	if name := curation.SiteName(sourceLink); name != "" {
		return name
	}
	return models.DefaultSource
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
