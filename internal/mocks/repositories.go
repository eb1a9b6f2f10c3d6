package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/repository"
)

// MockDebunkRepository is an in-memory implementation of DebunkRepository.
// The mutex matters because the mirror goroutine patches records while tests
// still hold the mock.
type MockDebunkRepository struct {
	mu           sync.Mutex
	Records      map[string]*models.Debunk
	InsertError  error
	UpdateError  error
	DeleteError  error
	nextID       int
	WaybackCalls []string
}

func NewMockDebunkRepository() *MockDebunkRepository {
	return &MockDebunkRepository{Records: make(map[string]*models.Debunk)}
}

func (m *MockDebunkRepository) Create(ctx context.Context, d *models.Debunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertError != nil {
		return m.InsertError
	}
	if d.ID == "" {
		m.nextID++
		d.ID = fmt.Sprintf("debunk-%d", m.nextID)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = time.Now()
	copied := *d
	m.Records[d.ID] = &copied
	return nil
}

func (m *MockDebunkRepository) Update(ctx context.Context, d *models.Debunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateError != nil {
		return m.UpdateError
	}
	existing, ok := m.Records[d.ID]
	if !ok {
		return fmt.Errorf("debunk %s not found", d.ID)
	}
	copied := *d
	copied.IsPublished = existing.IsPublished
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = time.Now()
	m.Records[d.ID] = &copied
	return nil
}

func (m *MockDebunkRepository) GetByID(ctx context.Context, id string) (*models.Debunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Records[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (m *MockDebunkRepository) GetBySlug(ctx context.Context, slug string) (*models.Debunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.Records {
		if d.Slug == slug {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *MockDebunkRepository) List(ctx context.Context, q repository.ListQuery) ([]*models.Debunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Debunk
	for _, d := range m.Records {
		if q.Published != nil && d.IsPublished != *q.Published {
			continue
		}
		if q.Category != "" && d.Category != q.Category {
			continue
		}
		copied := *d
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if q.OrderByOccurred && out[i].OccurrenceDate != out[j].OccurrenceDate {
			return out[i].OccurrenceDate > out[j].OccurrenceDate
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockDebunkRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.Records[id]; !ok {
		return fmt.Errorf("debunk %s not found", id)
	}
	delete(m.Records, id)
	return nil
}

func (m *MockDebunkRepository) TogglePublished(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.Records[id]
	if !ok {
		return false, fmt.Errorf("debunk %s not found", id)
	}
	d.IsPublished = !d.IsPublished
	return d.IsPublished, nil
}

func (m *MockDebunkRepository) SetWaybackURL(ctx context.Context, id, waybackURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WaybackCalls = append(m.WaybackCalls, id)
	if d, ok := m.Records[id]; ok {
		d.WaybackURL = waybackURL
	}
	return nil
}

func (m *MockDebunkRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records), nil
}

// MockPendingRepository is an in-memory implementation of PendingRepository
type MockPendingRepository struct {
	Candidates  map[string]*models.PendingScrape
	DeleteError error
}

func NewMockPendingRepository() *MockPendingRepository {
	return &MockPendingRepository{Candidates: make(map[string]*models.PendingScrape)}
}

func (m *MockPendingRepository) Create(ctx context.Context, p *models.PendingScrape) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	copied := *p
	m.Candidates[p.ID] = &copied
	return nil
}

func (m *MockPendingRepository) GetByID(ctx context.Context, id string) (*models.PendingScrape, error) {
	p, ok := m.Candidates[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *MockPendingRepository) List(ctx context.Context) ([]*models.PendingScrape, error) {
	var out []*models.PendingScrape
	for _, p := range m.Candidates {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MockPendingRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.Candidates, id)
	return nil
}

func (m *MockPendingRepository) Count(ctx context.Context) (int, error) {
	return len(m.Candidates), nil
}

// NewMockRepositories bundles both mocks into a Repositories struct
func NewMockRepositories() (*repository.Repositories, *MockDebunkRepository, *MockPendingRepository) {
	debunks := NewMockDebunkRepository()
	pending := NewMockPendingRepository()
	return &repository.Repositories{Debunk: debunks, Pending: pending}, debunks, pending
}
