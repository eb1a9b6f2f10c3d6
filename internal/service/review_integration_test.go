package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/service"
)

// TestWorkflow_SubmitReviewPromote walks a candidate through the whole
// pipeline: public submission, inbox listing, review draft, promotion,
// and finally the public surfaces that the new record must reach.
func TestWorkflow_SubmitReviewPromote(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// A scraper drops a candidate into the inbox.
	candidate := &models.PendingScrape{
		Title:          "Viral clip of collapsed bridge is AI-generated",
		Summary:        "The clip was generated, not filmed.",
		SourceLink:     "https://dismislab.com/report/42",
		OccurrenceDate: "2026-04-10T09:00:00Z",
	}
	if err := env.services.Review.SubmitPending(ctx, candidate); err != nil {
		t.Fatalf("SubmitPending failed: %v", err)
	}

	inbox, err := env.services.Archive.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("Expected 1 inbox candidate, got %d", len(inbox))
	}

	// An editor opens it for review and gets a fully defaulted draft.
	draft, err := env.services.Review.OpenReview(ctx, candidate.ID)
	if err != nil {
		t.Fatalf("OpenReview failed: %v", err)
	}
	if draft.Source != "Dismislab" {
		t.Errorf("Expected source resolved from link, got %q", draft.Source)
	}
	if draft.OccurrenceDate != "2026-04-10" {
		t.Errorf("Expected calendar day, got %q", draft.OccurrenceDate)
	}

	// The editor tweaks and saves; the draft promotes into the archive.
	draft.Category = "Disaster"
	record, err := env.services.Review.Save(ctx, draft, nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !record.IsPublished {
		t.Error("Promoted record should be published")
	}

	// The candidate is gone from the inbox.
	inbox, err = env.services.Archive.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending after promotion failed: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("Inbox should be empty after promotion, got %d", len(inbox))
	}

	// A second candidate with the same title never reaches the inbox view.
	dup := &models.PendingScrape{Title: "VIRAL clip of collapsed bridge is ai-generated"}
	if err := env.services.Review.SubmitPending(ctx, dup); err != nil {
		t.Fatalf("SubmitPending duplicate failed: %v", err)
	}
	inbox, _ = env.services.Archive.ListPending(ctx)
	if len(inbox) != 0 {
		t.Errorf("Duplicate candidate should be hidden from the inbox, got %d", len(inbox))
	}

	// Promoting the same title again is rejected outright.
	again := validDraft(record.Title)
	if _, err := env.services.Review.CreateManual(ctx, again, nil); err != service.ErrDuplicateTitle {
		t.Errorf("Expected ErrDuplicateTitle, got %v", err)
	}

	// The record is reachable by slug and shows up in feed and export.
	bySlug, err := env.services.Archive.GetRecordBySlug(ctx, record.Slug)
	if err != nil {
		t.Fatalf("GetRecordBySlug failed: %v", err)
	}
	if bySlug.ID != record.ID {
		t.Errorf("Slug lookup returned wrong record: %s", bySlug.ID)
	}

	feed, err := env.services.Archive.Feed(ctx)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}
	if len(feed.Items) != 1 || feed.Items[0].ID != record.Slug {
		t.Errorf("Feed should carry the promoted record, got %d items", len(feed.Items))
	}

	var sb strings.Builder
	count, err := env.services.Export.StreamCSV(ctx, &sb, models.RecordFilter{})
	if err != nil {
		t.Fatalf("StreamCSV failed: %v", err)
	}
	if count != 1 || !strings.Contains(sb.String(), record.Title) {
		t.Errorf("Export should carry the promoted record, count=%d", count)
	}

	// Unpublishing removes it from the feed without deleting it.
	published, err := env.services.Review.TogglePublish(ctx, record.ID)
	if err != nil {
		t.Fatalf("TogglePublish failed: %v", err)
	}
	if published {
		t.Error("Toggle should unpublish the record")
	}
	feed, _ = env.services.Archive.Feed(ctx)
	if len(feed.Items) != 0 {
		t.Errorf("Unpublished record must leave the feed, got %d items", len(feed.Items))
	}
	if _, err := env.services.Archive.GetRecord(ctx, record.ID); err != nil {
		t.Errorf("Unpublished record should still be readable by ID: %v", err)
	}

	env.services.Review.Close()
}

// TestWorkflow_RejectCandidate covers the other exit from the inbox.
func TestWorkflow_RejectCandidate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	candidate := &models.PendingScrape{Title: "Not worth archiving"}
	if err := env.services.Review.SubmitPending(ctx, candidate); err != nil {
		t.Fatalf("SubmitPending failed: %v", err)
	}

	if err := env.services.Review.DeletePending(ctx, candidate.ID); err != nil {
		t.Fatalf("DeletePending failed: %v", err)
	}

	inbox, err := env.services.Archive.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(inbox) != 0 {
		t.Errorf("Rejected candidate should leave the inbox, got %d", len(inbox))
	}
	if len(env.debunks.Records) != 0 {
		t.Error("Rejection must not create an archive record")
	}
}
