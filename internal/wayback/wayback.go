// Package wayback submits source URLs to the Internet Archive's save
// endpoint. Everything here is best-effort: a failed or slow submission is
// logged and forgotten, never surfaced to the save that triggered it.
package wayback

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gng-archive-api/internal/config"
	"github.com/rs/zerolog"
)

// Client talks to the archival mirror.
type Client struct {
	baseURL string
	http    *http.Client
	enabled bool
	log     zerolog.Logger
}

// NewClient builds a mirror client with its own timeout, independent of the
// request that triggered the submission.
func NewClient(cfg *config.WaybackConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		enabled: cfg.Enabled,
		log:     log.With().Str("component", "wayback").Logger(),
	}
}

// Submit asks the mirror to snapshot the URL and returns the permanent mirror
// URL, or "" when the URL is unarchivable or the submission failed.
func (c *Client) Submit(ctx context.Context, url string) string {
	if !c.enabled || url == "" || strings.Contains(url, "localhost") {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/save/"+url, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("Wayback request build failed")
		return ""
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("Wayback submission failed")
		return ""
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("Wayback submission rejected")
		return ""
	}

	mirror := fmt.Sprintf("%s/web/%s", c.baseURL, url)
	c.log.Info().Str("url", url).Str("mirror", mirror).Msg("Wayback snapshot requested")
	return mirror
}
