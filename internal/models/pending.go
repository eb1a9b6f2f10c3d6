package models

import (
	"time"
)

// PendingScrape is an unreviewed candidate sitting in the inbox. Same broad
// shape as Debunk but with no guarantees: the classification fields may be
// empty and are defaulted when a reviewer opens the item.
type PendingScrape struct {
	ID             string    `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Summary        string    `json:"summary" db:"summary"`
	Verdict        string    `json:"verdict,omitempty" db:"verdict"`
	Severity       string    `json:"severity,omitempty" db:"severity"`
	Category       string    `json:"category,omitempty" db:"category"`
	Platform       string    `json:"platform,omitempty" db:"platform"`
	Country        string    `json:"country,omitempty" db:"country"`
	Source         string    `json:"source,omitempty" db:"source"`
	SourceLink     string    `json:"source_link,omitempty" db:"source_link"`
	MediaURL       string    `json:"media_url,omitempty" db:"media_url"`
	OccurrenceDate string    `json:"occurrence_date,omitempty" db:"occurrence_date"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
