package mocks

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/gng-archive-api/internal/realtime"
)

// MockTranslator returns a canned prefix so tests can tell a translated
// field from a passthrough one.
type MockTranslator struct {
	Prefix string
	Calls  []string
}

func (m *MockTranslator) ToEnglish(ctx context.Context, text string) string {
	m.Calls = append(m.Calls, text)
	if m.Prefix == "" {
		return text
	}
	return m.Prefix + text
}

// MockArchiver records submitted URLs and returns a deterministic mirror
type MockArchiver struct {
	mu        sync.Mutex
	Submitted []string
	MirrorURL string
	Done      chan struct{}
}

func NewMockArchiver() *MockArchiver {
	return &MockArchiver{MirrorURL: "https://mirror.test/web/", Done: make(chan struct{}, 8)}
}

func (m *MockArchiver) Submit(ctx context.Context, url string) string {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, url)
	m.mu.Unlock()
	select {
	case m.Done <- struct{}{}:
	default:
	}
	if url == "" {
		return ""
	}
	return m.MirrorURL + url
}

func (m *MockArchiver) SubmittedURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Submitted))
	copy(out, m.Submitted)
	return out
}

// MockNotifier captures published change events
type MockNotifier struct {
	mu     sync.Mutex
	Events []realtime.Event
}

func (m *MockNotifier) Publish(e realtime.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, e)
}

func (m *MockNotifier) EventsFor(table string) []realtime.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []realtime.Event
	for _, e := range m.Events {
		if e.Table == table {
			out = append(out, e)
		}
	}
	return out
}

// MockEvidenceStore keeps uploads in memory and hands back fake URLs
type MockEvidenceStore struct {
	Files     map[string]string
	SaveError error
}

func NewMockEvidenceStore() *MockEvidenceStore {
	return &MockEvidenceStore{Files: make(map[string]string)}
}

func (m *MockEvidenceStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return "", err
	}
	url := "https://files.test/evidence/" + originalName
	m.Files[url] = sb.String()
	return url, nil
}
