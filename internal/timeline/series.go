// Package timeline buckets archive records into a gap-free day-by-day series
// for the public activity chart.
package timeline

import (
	"strings"
	"time"

	"github.com/gng-archive-api/internal/models"
)

// DateField selects which record date drives the bucketing.
type DateField int

const (
	// ByOccurrence buckets on the real-world incident date.
	ByOccurrence DateField = iota
	// ByCreated buckets on record creation time.
	ByCreated
)

// DayBucket is one calendar day's aggregated counts.
type DayBucket struct {
	Label    string `json:"label"` // e.g. "Mar 1"
	Date     string `json:"date"`  // ISO, e.g. "2025-03-01"
	Total    int    `json:"total"`
	Critical int    `json:"critical"`
}

// Window selects the date range for a series. Days > 0 is a fixed lookback
// ending today; Days == 0 means full history starting at the earliest
// parseable record date.
type Window struct {
	Days int
}

const isoDay = "2006-01-02"

// BuildDailySeries produces one bucket for every calendar day from start to
// end inclusive, zero-filled on empty days. Records are pre-indexed by ISO
// date string so the walk is O(days + records). Records whose date is absent
// or unparseable are excluded entirely.
func BuildDailySeries(records []*models.Debunk, field DateField, start, end time.Time) []DayBucket {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil
	}

	type dayCounts struct {
		total    int
		critical int
	}
	index := make(map[string]*dayCounts, len(records))
	for _, d := range records {
		key, ok := recordDay(d, field)
		if !ok {
			continue
		}
		c := index[key]
		if c == nil {
			c = &dayCounts{}
			index[key] = c
		}
		c.total++
		if isCritical(d.Severity) {
			c.critical++
		}
	}

	var series []DayBucket
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(isoDay)
		bucket := DayBucket{
			Label: day.Format("Jan 2"),
			Date:  key,
		}
		if c := index[key]; c != nil {
			bucket.Total = c.total
			bucket.Critical = c.critical
		}
		series = append(series, bucket)
	}
	return series
}

// BuildSeries resolves a window against "now" and the record set, then
// delegates to BuildDailySeries. Full-history mode with no datable records
// yields a single empty bucket for today.
func BuildSeries(records []*models.Debunk, field DateField, w Window, now time.Time) []DayBucket {
	end := truncateDay(now)
	var start time.Time

	if w.Days > 0 {
		start = end.AddDate(0, 0, -(w.Days - 1))
	} else {
		start = end
		for _, d := range records {
			key, ok := recordDay(d, field)
			if !ok {
				continue
			}
			day, err := time.Parse(isoDay, key)
			if err != nil {
				continue
			}
			if day.Before(start) {
				start = day
			}
		}
	}
	return BuildDailySeries(records, field, start, end)
}

// SeriesMax returns the largest bucket total, floored at 1 so the chart's
// proportional scaling never divides by zero.
func SeriesMax(series []DayBucket) int {
	max := 1
	for _, b := range series {
		if b.Total > max {
			max = b.Total
		}
	}
	return max
}

// recordDay normalizes a record's bucketing date to its ISO day string.
func recordDay(d *models.Debunk, field DateField) (string, bool) {
	if field == ByCreated {
		if d.CreatedAt.IsZero() {
			return "", false
		}
		return d.CreatedAt.Format(isoDay), true
	}
	if d.OccurrenceDate == "" {
		return "", false
	}
	// Dates may arrive as full timestamps; only the calendar day matters.
	raw := d.OccurrenceDate
	if len(raw) > len(isoDay) {
		raw = raw[:len(isoDay)]
	}
	if _, err := time.Parse(isoDay, raw); err != nil {
		return "", false
	}
	return raw, true
}

func isCritical(severity string) bool {
	return strings.EqualFold(severity, "critical")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
