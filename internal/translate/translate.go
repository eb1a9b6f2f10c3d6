// Package translate wraps the free Google translate endpoint used to turn
// Bengali-script candidate text into English at review time. Any failure
// falls back to the original text; translation never blocks a review.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gng-archive-api/internal/config"
	"github.com/rs/zerolog"
)

// Client is the translation collaborator.
type Client struct {
	endpoint   string
	targetLang string
	http       *http.Client
	enabled    bool
	log        zerolog.Logger
}

// NewClient builds a translation client with its own timeout.
func NewClient(cfg *config.TranslateConfig, log zerolog.Logger) *Client {
	return &Client{
		endpoint:   cfg.Endpoint,
		targetLang: cfg.TargetLang,
		http:       &http.Client{Timeout: cfg.Timeout},
		enabled:    cfg.Enabled,
		log:        log.With().Str("component", "translate").Logger(),
	}
}

// ContainsBengali reports whether the text carries any Bengali-script rune
// (U+0980 through U+09FF).
func ContainsBengali(text string) bool {
	for _, r := range text {
		if r >= 0x0980 && r <= 0x09FF {
			return true
		}
	}
	return false
}

// ToEnglish translates Bengali text to the target language. Text already in
// Latin script passes through untouched, as does anything the endpoint
// cannot handle.
func (c *Client) ToEnglish(ctx context.Context, text string) string {
	if !c.enabled || text == "" || !ContainsBengali(text) {
		return text
	}

	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "bn")
	q.Set("tl", c.targetLang)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("Translate request build failed")
		return text
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("Translate request failed")
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("Translate endpoint rejected request")
		return text
	}

	translated, err := decodeSegments(resp.Body)
	if err != nil {
		c.log.Warn().Err(err).Msg("Translate response unreadable")
		return text
	}
	return translated
}

// decodeSegments parses the endpoint's nested-array response
// ([[["segment", ...], ...], ...]) and joins the translated segments.
func decodeSegments(r io.Reader) (string, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(seg[0], &s); err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return b.String(), nil
}
