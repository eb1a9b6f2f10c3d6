package curation

import (
	"sort"
	"strings"

	"github.com/gng-archive-api/internal/models"
)

// GlobalSearch filters records by a case-insensitive substring match over the
// fixed field set {title, summary, category, platform, country, resolved
// source, id}. An empty or whitespace-only query returns the input unchanged.
func GlobalSearch(records []*models.Debunk, query string) []*models.Debunk {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}

	matched := make([]*models.Debunk, 0, len(records))
	for _, d := range records {
		fields := []string{
			d.Title,
			d.Summary,
			d.Category,
			d.Platform,
			d.Country,
			d.ResolvedSource(SiteName),
			d.ID,
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				matched = append(matched, d)
				break
			}
		}
	}
	return matched
}

// FilterByCategory keeps records matching the given category. Empty or "All"
// bypasses the predicate entirely.
func FilterByCategory(records []*models.Debunk, category string) []*models.Debunk {
	if category == "" || strings.EqualFold(category, "All") {
		return records
	}
	matched := make([]*models.Debunk, 0, len(records))
	for _, d := range records {
		if strings.EqualFold(d.Category, category) {
			matched = append(matched, d)
		}
	}
	return matched
}

// CategoryCounts groups records by category (defaulting "General" when
// absent) and returns facets sorted by descending count, ties broken
// alphabetically so the sidebar is stable between refreshes.
func CategoryCounts(records []*models.Debunk) []models.CategoryCount {
	counts := make(map[string]int)
	for _, d := range records {
		cat := d.Category
		if cat == "" {
			cat = "General"
		}
		counts[cat]++
	}

	out := make([]models.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Paginate slices a record set into the requested page (1-based). Page and
// per-page values out of range clamp rather than error.
func Paginate(records []*models.Debunk, page, perPage int) []*models.Debunk {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(records) {
		return []*models.Debunk{}
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
