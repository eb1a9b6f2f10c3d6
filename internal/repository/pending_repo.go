package repository

import (
	"context"
	"database/sql"

	"github.com/gng-archive-api/internal/database"
	"github.com/gng-archive-api/internal/models"
)

const pendingColumns = `id, title, summary, verdict, severity, category, platform, country,
	source, source_link, media_url, occurrence_date, created_at`

// pendingRepo is the concrete implementation of PendingRepository
type pendingRepo struct {
	db *database.DB
}

// NewPendingRepo creates a new pending-scrape repository
func NewPendingRepo(db *database.DB) PendingRepository {
	return &pendingRepo{db: db}
}

// Create inserts an inbox candidate. Candidates arrive from the external
// ingestion pipeline with no field guarantees beyond a title.
func (r *pendingRepo) Create(ctx context.Context, p *models.PendingScrape) error {
	query := `
		INSERT INTO pending_scrapes (id, title, summary, verdict, severity, category, platform,
			country, source, source_link, media_url, occurrence_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, p.Summary, nullStr(p.Verdict), nullStr(p.Severity), nullStr(p.Category),
		nullStr(p.Platform), nullStr(p.Country), nullStr(p.Source), nullStr(p.SourceLink),
		nullStr(p.MediaURL), nullStr(p.OccurrenceDate),
	).Scan(&p.CreatedAt)
}

// GetByID retrieves a candidate by ID; nil when absent
func (r *pendingRepo) GetByID(ctx context.Context, id string) (*models.PendingScrape, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+pendingColumns+" FROM pending_scrapes WHERE id = $1", id)
	return scanPending(row)
}

// List returns the full inbox, newest first
func (r *pendingRepo) List(ctx context.Context) ([]*models.PendingScrape, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pendingColumns+" FROM pending_scrapes ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PendingScrape
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a candidate (rejection, or cleanup after promotion)
func (r *pendingRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM pending_scrapes WHERE id = $1", id)
	return err
}

// Count returns the inbox size
func (r *pendingRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pending_scrapes").Scan(&count)
	return count, err
}

func scanPending(row scanner) (*models.PendingScrape, error) {
	var p models.PendingScrape
	var verdict, severity, category, platform, country, source, sourceLink, mediaURL sql.NullString
	var occurrence sql.NullTime

	err := row.Scan(
		&p.ID, &p.Title, &p.Summary, &verdict, &severity, &category, &platform,
		&country, &source, &sourceLink, &mediaURL, &occurrence, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Verdict = verdict.String
	p.Severity = severity.String
	p.Category = category.String
	p.Platform = platform.String
	p.Country = country.String
	p.Source = source.String
	p.SourceLink = sourceLink.String
	p.MediaURL = mediaURL.String
	if occurrence.Valid {
		p.OccurrenceDate = occurrence.Time.Format("2006-01-02")
	}
	return &p, nil
}
