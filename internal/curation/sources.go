package curation

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// sourceNames maps a substring of a URL's host to the outlet's display name.
// Order matters only for the twitter/x pair; lookups scan in slice order.
var sourceNames = []sourceEntry{
	{"rumorscanner.com", "Rumour Scanner"},
	{"dismislab.com", "Dismislab"},
	{"fact-watch.org", "FactWatch"},
	{"facebook.com", "Facebook"},
	{"twitter.com", "X (Twitter)"},
	{"x.com", "X (Twitter)"},
	{"youtube.com", "YouTube"},
	{"boomlive.in", "BOOM Live"},
}

type sourceEntry struct {
	Host string `yaml:"host"`
	Name string `yaml:"name"`
}

// SiteName resolves a URL to a known outlet's display name. No match
// returns the empty string, signaling the caller to fall back to a generic
// label.
func SiteName(url string) string {
	if url == "" {
		return ""
	}
	lower := strings.ToLower(url)
	for _, e := range sourceNames {
		if strings.Contains(lower, e.Host) {
			return e.Name
		}
	}
	return ""
}

// LoadSourceNames extends the built-in lookup table from a YAML file of
// {host, name} entries. Custom entries take priority over the defaults.
func LoadSourceNames(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source table: %w", err)
	}
	var custom []sourceEntry
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("failed to parse source table: %w", err)
	}
	for i := range custom {
		custom[i].Host = strings.ToLower(custom[i].Host)
	}
	sourceNames = append(custom, sourceNames...)
	return nil
}
