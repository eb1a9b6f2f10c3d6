package validation

import (
	"testing"

	"github.com/gng-archive-api/internal/models"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name       string
		draft      *models.ReviewDraft
		wantErrors int
		wantFields []string
	}{
		{
			name: "valid draft with all fields",
			draft: &models.ReviewDraft{
				Title:          "Deepfake minister speech",
				Summary:        "The speech never happened.",
				Severity:       "high",
				OccurrenceDate: "2026-03-15",
				SourceLink:     "https://rumorscanner.com/report/1",
				Slug:           "deepfake-minister-speech-17000",
			},
			wantErrors: 0,
		},
		{
			name: "minimal valid draft",
			draft: &models.ReviewDraft{
				Title:   "Title only plus summary",
				Summary: "Summary.",
			},
			wantErrors: 0,
		},
		{
			name: "missing title",
			draft: &models.ReviewDraft{
				Summary: "Summary.",
			},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name: "whitespace-only title",
			draft: &models.ReviewDraft{
				Title:   "   ",
				Summary: "Summary.",
			},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name: "missing summary",
			draft: &models.ReviewDraft{
				Title: "Title",
			},
			wantErrors: 1,
			wantFields: []string{"summary"},
		},
		{
			name: "unknown severity",
			draft: &models.ReviewDraft{
				Title:    "Title",
				Summary:  "Summary.",
				Severity: "catastrophic",
			},
			wantErrors: 1,
			wantFields: []string{"severity"},
		},
		{
			name: "severity is case-insensitive",
			draft: &models.ReviewDraft{
				Title:    "Title",
				Summary:  "Summary.",
				Severity: "Critical",
			},
			wantErrors: 0,
		},
		{
			name: "malformed occurrence date",
			draft: &models.ReviewDraft{
				Title:          "Title",
				Summary:        "Summary.",
				OccurrenceDate: "15/03/2026",
			},
			wantErrors: 1,
			wantFields: []string{"occurrence_date"},
		},
		{
			name: "source link must be http(s)",
			draft: &models.ReviewDraft{
				Title:      "Title",
				Summary:    "Summary.",
				SourceLink: "ftp://example.com/file",
			},
			wantErrors: 1,
			wantFields: []string{"source_link"},
		},
		{
			name: "bad slug shape",
			draft: &models.ReviewDraft{
				Title:   "Title",
				Summary: "Summary.",
				Slug:    "Not_A_Slug",
			},
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name: "multiple validation errors collected together",
			draft: &models.ReviewDraft{
				Severity:       "huge",
				OccurrenceDate: "yesterday",
				SourceLink:     "not-a-url",
			},
			wantErrors: 5, // title, summary, severity, occurrence_date, source_link
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateDraft(tt.draft)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidateDraft() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}

			for _, wantField := range tt.wantFields {
				found := false
				for _, err := range errors {
					if err.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidatePendingSubmission(t *testing.T) {
	tests := []struct {
		name       string
		candidate  *models.PendingScrape
		wantErrors int
		wantFields []string
	}{
		{
			name: "title alone is enough",
			candidate: &models.PendingScrape{
				Title: "Viral photo is staged",
			},
			wantErrors: 0,
		},
		{
			name:       "missing title",
			candidate:  &models.PendingScrape{SourceLink: "https://facebook.com/post/1"},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name: "bad source link",
			candidate: &models.PendingScrape{
				Title:      "Viral photo is staged",
				SourceLink: "javascript:alert(1)",
			},
			wantErrors: 1,
			wantFields: []string{"source_link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidatePendingSubmission(tt.candidate)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidatePendingSubmission() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}

			for _, wantField := range tt.wantFields {
				found := false
				for _, err := range errors {
					if err.Field == wantField {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestSlugShapeValidation(t *testing.T) {
	tests := []struct {
		slug  string
		valid bool
	}{
		{"valid-slug", true},
		{"a", true},
		{"a-b-c", true},
		{"123-numbers", true},
		{"slug-1758000000000", true},
		{"Invalid-Slug", false},
		{"invalid_slug", false},
		{"invalid slug", false},
		{"-starts-with-dash", false},
		{"ends-with-dash-", false},
		{"double--dash", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			draft := &models.ReviewDraft{
				Title:   "Test",
				Summary: "Test summary",
				Slug:    tt.slug,
			}
			errors := ValidateDraft(draft)
			hasSlugError := false
			for _, err := range errors {
				if err.Field == "slug" {
					hasSlugError = true
					break
				}
			}
			if tt.valid && hasSlugError {
				t.Errorf("Slug '%s' should be valid", tt.slug)
			}
			if !tt.valid && !hasSlugError {
				t.Errorf("Slug '%s' should be invalid", tt.slug)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "title", Message: "title is required"}
	if err.Error() != "title: title is required" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
}

func TestValidateDraft_UnicodeText(t *testing.T) {
	draft := &models.ReviewDraft{
		Title:   "ভুয়া ভিডিও ভাইরাল",
		Summary: "ভিডিওটি কৃত্রিমভাবে তৈরি।",
	}
	if errors := ValidateDraft(draft); len(errors) != 0 {
		t.Errorf("Unicode text should be valid, got errors: %v", errors)
	}
}

func BenchmarkValidateDraft(b *testing.B) {
	draft := &models.ReviewDraft{
		Title:          "Deepfake minister speech",
		Summary:        "The speech never happened.",
		Severity:       "high",
		OccurrenceDate: "2026-03-15",
		SourceLink:     "https://rumorscanner.com/report/1",
		Slug:           "deepfake-minister-speech",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ValidateDraft(draft)
	}
}
