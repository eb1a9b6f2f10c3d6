package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gng-archive-api/internal/models"
)

var (
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	urlRegex  = regexp.MustCompile(`^https?://`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error satisfies the error interface for single-error contexts
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateDraft checks a review draft before any store mutation is attempted.
// All problems are collected and reported together.
func ValidateDraft(d *models.ReviewDraft) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(d.Summary) == "" {
		errs = append(errs, ValidationError{Field: "summary", Message: "summary is required"})
	}
	if d.Severity != "" && !models.ValidSeverities[strings.ToLower(d.Severity)] {
		errs = append(errs, ValidationError{
			Field:   "severity",
			Message: "severity must be one of: low, medium, high, critical",
			Value:   d.Severity,
		})
	}
	if d.OccurrenceDate != "" {
		if _, err := time.Parse("2006-01-02", d.OccurrenceDate); err != nil {
			errs = append(errs, ValidationError{
				Field:   "occurrence_date",
				Message: "occurrence_date must be YYYY-MM-DD",
				Value:   d.OccurrenceDate,
			})
		}
	}
	if d.SourceLink != "" && !urlRegex.MatchString(d.SourceLink) {
		errs = append(errs, ValidationError{
			Field:   "source_link",
			Message: "source_link must be an http(s) URL",
			Value:   d.SourceLink,
		})
	}
	if d.Slug != "" && !slugRegex.MatchString(d.Slug) {
		errs = append(errs, ValidationError{
			Field:   "slug",
			Message: "slug must be lowercase alphanumerics separated by dashes",
			Value:   d.Slug,
		})
	}

	return errs
}

// ValidatePendingSubmission checks an inbound inbox candidate. Candidates are
// weaker-shaped than records: only a title is mandatory.
func ValidatePendingSubmission(p *models.PendingScrape) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, ValidationError{Field: "title", Message: "title is required"})
	}
	if p.SourceLink != "" && !urlRegex.MatchString(p.SourceLink) {
		errs = append(errs, ValidationError{
			Field:   "source_link",
			Message: "source_link must be an http(s) URL",
			Value:   p.SourceLink,
		})
	}

	return errs
}
