package curation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe identifier: lowercased, runs of
// non-alphanumerics collapsed to a single dash, edges trimmed.
func Slugify(title string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// SlugWithSuffix appends a millisecond timestamp to keep generated slugs
// unique. Collision avoidance is best-effort; the store does not enforce a
// global constraint beyond the unique index rejecting the rare clash.
func SlugWithSuffix(title string, now time.Time) string {
	return Slugify(title) + "-" + strconv.FormatInt(now.UnixMilli(), 10)
}
