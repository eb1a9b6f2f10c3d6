// Package storage implements the evidence blob store: content uploaded once,
// addressed forever by a public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gng-archive-api/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EvidenceStore persists an uploaded evidence file and returns its public URL.
type EvidenceStore interface {
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
}

// DiskStore keeps evidence files under a local directory served by the API
// at /evidence/.
type DiskStore struct {
	dir     string
	baseURL string
	maxSize int64
	log     zerolog.Logger
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(cfg *config.StorageConfig, publicBaseURL string, log zerolog.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{
		dir:     cfg.UploadDir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize: cfg.MaxUploadSize,
		log:     log.With().Str("component", "evidence").Logger(),
	}, nil
}

// Save writes the file under a timestamped name and returns its public URL.
// The original name contributes only its extension; everything else is
// generated so uploads can never collide or traverse paths.
func (s *DiskStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("archive-%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(f.Name())
		return "", fmt.Errorf("evidence file exceeds %d bytes", s.maxSize)
	}

	s.log.Info().Str("file", name).Int64("bytes", written).Msg("Evidence stored")
	return s.baseURL + "/evidence/" + name, nil
}

// Dir returns the directory the store serves from.
func (s *DiskStore) Dir() string {
	return s.dir
}
