package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gng-archive-api/internal/curation"
	"github.com/gng-archive-api/internal/models"
	"github.com/gng-archive-api/internal/repository"
	"github.com/rs/zerolog"
)

// csvHeader is the spreadsheet contract; downstream tooling depends on the
// column order.
var csvHeader = []string{"ID", "Title", "Verdict", "Date", "Category", "Source", "Summary"}

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// StreamCSV writes the filtered archive as CSV and returns the row count.
// encoding/csv handles the quoting rules (fields containing commas or quotes
// wrapped in double quotes, internal quotes doubled).
func (s *exportService) StreamCSV(ctx context.Context, w io.Writer, f models.RecordFilter) (int, error) {
	records, err := s.repos.Debunk.List(ctx, repository.ListQuery{
		Published:       f.Published,
		OrderByOccurred: true,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list records: %w", err)
	}

	filtered := curation.FilterByCategory(records, f.Category)
	filtered = curation.GlobalSearch(filtered, f.Query)

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, err
	}

	count := 0
	for _, d := range filtered {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		row := []string{
			d.ID,
			d.Title,
			d.Verdict,
			d.OccurrenceDate,
			d.Category,
			d.Source,
			d.Summary,
		}
		if err := writer.Write(row); err != nil {
			return count, err
		}
		count++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return count, err
	}

	s.log.Info().Int("count", count).Msg("CSV export completed")
	return count, nil
}
