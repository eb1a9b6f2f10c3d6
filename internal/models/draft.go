package models

// ReviewDraft is the editable, fully-defaulted copy of a candidate or record
// handed to the admin console. All normalization happens once, when the draft
// is built, never ad hoc at save time.
type ReviewDraft struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	Verdict        string `json:"verdict"`
	Severity       string `json:"severity"`
	Category       string `json:"category"`
	Platform       string `json:"platform"`
	Country        string `json:"country"`
	Source         string `json:"source"`
	SourceLink     string `json:"source_link"`
	MediaURL       string `json:"media_url"`
	Slug           string `json:"slug,omitempty"`
	Method         string `json:"method,omitempty"`
	OccurrenceDate string `json:"occurrence_date"` // YYYY-MM-DD, no time component
	Editing        bool   `json:"editing"`         // true = updating an existing record
}

// Draft defaults applied when a candidate is opened for review.
const (
	DefaultVerdict  = "Fake"
	DefaultSeverity = "medium"
	DefaultCategory = "Others"
	DefaultPlatform = "Web"
	DefaultCountry  = "Bangladesh"
	DefaultSource   = "Verified Source"
	DefaultMethod   = "AI Pattern Review"
)
