package repository

import (
	"context"

	"github.com/gng-archive-api/internal/database"
	"github.com/gng-archive-api/internal/models"
)

// ListQuery narrows a debunk listing at the SQL level. In-memory search and
// faceting happen on top of the returned set.
type ListQuery struct {
	Published       *bool  // nil = both published and drafts
	Category        string // empty = all categories
	OrderByOccurred bool   // true = occurrence_date desc, false = created_at desc
}

// DebunkRepository defines the interface for archive record operations
type DebunkRepository interface {
	Create(ctx context.Context, d *models.Debunk) error
	Update(ctx context.Context, d *models.Debunk) error
	GetByID(ctx context.Context, id string) (*models.Debunk, error)
	GetBySlug(ctx context.Context, slug string) (*models.Debunk, error)
	List(ctx context.Context, q ListQuery) ([]*models.Debunk, error)
	Delete(ctx context.Context, id string) error
	TogglePublished(ctx context.Context, id string) (bool, error)
	SetWaybackURL(ctx context.Context, id, waybackURL string) error
	Count(ctx context.Context) (int, error)
}

// PendingRepository defines the interface for inbox candidate operations
type PendingRepository interface {
	Create(ctx context.Context, p *models.PendingScrape) error
	GetByID(ctx context.Context, id string) (*models.PendingScrape, error)
	List(ctx context.Context) ([]*models.PendingScrape, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Debunk  DebunkRepository
	Pending PendingRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Debunk:  NewDebunkRepo(db),
		Pending: NewPendingRepo(db),
	}
}
