// Package curation holds the pure record-set logic behind the admin console:
// title-based deduplication, the inbox filter, global search, category facets,
// slug generation and the source-name lookup. Nothing here touches the
// database; callers pass in the record sets they already hold.
package curation

import (
	"strings"

	"github.com/gng-archive-api/internal/models"
)

// NormalizeTitle lowercases and trims a title. This is the sole dedup and
// match key used everywhere in the curation flow.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// IsDuplicateTitle reports whether any existing record carries the same
// normalized title as the candidate.
func IsDuplicateTitle(candidateTitle string, existing []*models.Debunk) bool {
	key := NormalizeTitle(candidateTitle)
	if key == "" {
		return false
	}
	for _, d := range existing {
		if NormalizeTitle(d.Title) == key {
			return true
		}
	}
	return false
}

// FilterPendingAgainstPublished hides inbox candidates whose normalized title
// already exists in the archive. Promoting one item retroactively hides every
// other candidate sharing its title, which is also how an orphaned candidate
// left behind by a failed pending-delete self-heals out of view.
func FilterPendingAgainstPublished(pending []*models.PendingScrape, published []*models.Debunk) []*models.PendingScrape {
	titles := make(map[string]struct{}, len(published))
	for _, d := range published {
		titles[NormalizeTitle(d.Title)] = struct{}{}
	}

	filtered := make([]*models.PendingScrape, 0, len(pending))
	for _, p := range pending {
		if _, dup := titles[NormalizeTitle(p.Title)]; dup {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
