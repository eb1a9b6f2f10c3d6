package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/gng-archive-api/internal/database"
	"github.com/gng-archive-api/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const debunkColumns = `id, slug, title, summary, verdict, severity, category, platform, country,
	source, source_link, media_url, wayback_url, method, occurrence_date,
	is_published, is_permanently_stored, created_at, archived_at, updated_at`

// debunkRepo is the concrete implementation of DebunkRepository
type debunkRepo struct {
	db *database.DB
}

// NewDebunkRepo creates a new debunk repository
func NewDebunkRepo(db *database.DB) DebunkRepository {
	return &debunkRepo{db: db}
}

// Create inserts a new archive record. The store assigns the id and
// bookkeeping timestamps; they are written back onto d.
func (r *debunkRepo) Create(ctx context.Context, d *models.Debunk) error {
	query := `
		INSERT INTO debunks (slug, title, summary, verdict, severity, category, platform, country,
			source, source_link, media_url, wayback_url, method, occurrence_date,
			is_published, is_permanently_stored, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		d.Slug, d.Title, d.Summary, d.Verdict, d.Severity, d.Category, d.Platform, d.Country,
		d.Source, nullStr(d.SourceLink), nullStr(d.MediaURL), nullStr(d.WaybackURL),
		nullStr(d.Method), nullStr(d.OccurrenceDate),
		d.IsPublished, d.IsPermanentlyStored, d.ArchivedAt,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

// Update rewrites an existing record in place. Publish state is intentionally
// not part of the payload; it only changes through TogglePublished.
func (r *debunkRepo) Update(ctx context.Context, d *models.Debunk) error {
	query := `
		UPDATE debunks
		SET title = $2, summary = $3, verdict = $4, severity = $5, category = $6,
			platform = $7, country = $8, source = $9, source_link = $10, media_url = $11,
			wayback_url = $12, method = $13, occurrence_date = $14,
			is_permanently_stored = $15, archived_at = $16, updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		d.ID, d.Title, d.Summary, d.Verdict, d.Severity, d.Category,
		d.Platform, d.Country, d.Source, nullStr(d.SourceLink), nullStr(d.MediaURL),
		nullStr(d.WaybackURL), nullStr(d.Method), nullStr(d.OccurrenceDate),
		d.IsPermanentlyStored, d.ArchivedAt,
	)
	if err != nil {
		return err
	}
	return requireRow(res, d.ID)
}

// GetByID retrieves a record by ID; nil when absent
func (r *debunkRepo) GetByID(ctx context.Context, id string) (*models.Debunk, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM debunks WHERE id = $1", debunkColumns), id)
	return scanDebunk(row)
}

// GetBySlug retrieves a record by its public slug; nil when absent
func (r *debunkRepo) GetBySlug(ctx context.Context, slug string) (*models.Debunk, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM debunks WHERE slug = $1", debunkColumns), slug)
	return scanDebunk(row)
}

// List retrieves records matching the query, newest first
func (r *debunkRepo) List(ctx context.Context, q ListQuery) ([]*models.Debunk, error) {
	builder := psql.Select(debunkColumns).From("debunks")

	if q.Published != nil {
		builder = builder.Where(sq.Eq{"is_published": *q.Published})
	}
	if q.Category != "" {
		builder = builder.Where("LOWER(category) = LOWER(?)", q.Category)
	}
	if q.OrderByOccurred {
		builder = builder.OrderBy("occurrence_date DESC NULLS LAST", "created_at DESC")
	} else {
		builder = builder.OrderBy("created_at DESC")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Debunk
	for rows.Next() {
		d, err := scanDebunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a record permanently
func (r *debunkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM debunks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// TogglePublished flips the visibility flag atomically and returns the new
// state. Two admins racing is last-write-wins.
func (r *debunkRepo) TogglePublished(ctx context.Context, id string) (bool, error) {
	var published bool
	err := r.db.QueryRowContext(ctx, `
		UPDATE debunks SET is_published = NOT is_published, updated_at = NOW()
		WHERE id = $1 RETURNING is_published
	`, id).Scan(&published)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("debunk %s not found", id)
	}
	return published, err
}

// SetWaybackURL patches only the mirror URL; used by the detached archival
// follow-up so it cannot clobber concurrent edits to other fields.
func (r *debunkRepo) SetWaybackURL(ctx context.Context, id, waybackURL string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE debunks SET wayback_url = $2, updated_at = NOW() WHERE id = $1", id, waybackURL)
	return err
}

// Count returns the total number of archive records
func (r *debunkRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM debunks").Scan(&count)
	return count, err
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDebunk(row scanner) (*models.Debunk, error) {
	var d models.Debunk
	var sourceLink, mediaURL, waybackURL, method sql.NullString
	var occurrence sql.NullTime
	var archivedAt sql.NullTime

	err := row.Scan(
		&d.ID, &d.Slug, &d.Title, &d.Summary, &d.Verdict, &d.Severity, &d.Category,
		&d.Platform, &d.Country, &d.Source, &sourceLink, &mediaURL, &waybackURL,
		&method, &occurrence, &d.IsPublished, &d.IsPermanentlyStored,
		&d.CreatedAt, &archivedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d.SourceLink = sourceLink.String
	d.MediaURL = mediaURL.String
	d.WaybackURL = waybackURL.String
	d.Method = method.String
	if occurrence.Valid {
		d.OccurrenceDate = occurrence.Time.Format("2006-01-02")
	}
	if archivedAt.Valid {
		t := archivedAt.Time
		d.ArchivedAt = &t
	}
	return &d, nil
}

func nullStr(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("debunk %s not found", id)
	}
	return nil
}
