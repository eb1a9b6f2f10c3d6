package models

import (
	"time"
)

// Debunk is a curated case record in the permanent archive. Field names
// mirror the debunks table; optional columns are pointers so an absent
// value is distinguishable from an empty string.
type Debunk struct {
	ID                  string     `json:"id" db:"id"`
	Slug                string     `json:"slug" db:"slug"`
	Title               string     `json:"title" db:"title"`
	Summary             string     `json:"summary" db:"summary"`
	Verdict             string     `json:"verdict" db:"verdict"`
	Severity            string     `json:"severity" db:"severity"`
	Category            string     `json:"category" db:"category"`
	Platform            string     `json:"platform" db:"platform"`
	Country             string     `json:"country" db:"country"`
	Source              string     `json:"source" db:"source"`
	SourceLink          string     `json:"source_link,omitempty" db:"source_link"`
	MediaURL            string     `json:"media_url,omitempty" db:"media_url"`
	WaybackURL          string     `json:"wayback_url,omitempty" db:"wayback_url"`
	Method              string     `json:"method,omitempty" db:"method"`
	OccurrenceDate      string     `json:"occurrence_date" db:"occurrence_date"` // YYYY-MM-DD
	IsPublished         bool       `json:"is_published" db:"is_published"`
	IsPermanentlyStored bool       `json:"is_permanently_stored" db:"is_permanently_stored"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	ArchivedAt          *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidSeverities defines allowed severity levels
var ValidSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// ResolvedSource returns the display source for a record: the stored
// source if present, otherwise a name derived from the source link by
// the caller-supplied lookup.
func (d *Debunk) ResolvedSource(lookup func(string) string) string {
	if d.Source != "" {
		return d.Source
	}
	if d.SourceLink != "" && lookup != nil {
		return lookup(d.SourceLink)
	}
	return ""
}

// RecordFilter describes the archive list/search/export query surface.
type RecordFilter struct {
	Query     string
	Category  string // empty or "All" bypasses the category predicate
	Published *bool  // nil = both published and drafts
	Page      int
	PerPage   int
}

// CategoryCount is one sidebar facet entry.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// ArchiveStats are the headline numbers for the public landing page.
type ArchiveStats struct {
	Total        int `json:"total"`
	Countries    int `json:"countries"`
	Partners     int `json:"partners"`
	NewThisMonth int `json:"new_this_month"`
}
