package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/waulty/internal/logging"
	"github.com/dmitrijs2005/waulty/internal/server/models"
	"github.com/dmitrijs2005/waulty/internal/server/storage"
)

// ExportResult tells the caller where the file was written.
type ExportResult struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// ExportService writes Easit import files into a drop directory that Easit
// polls, optionally mirroring each file to object storage.
type ExportService struct {
	dir      string
	uploader storage.Uploader
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// NewExportService creates the service. uploader may be nil, which disables
// the mirror.
func NewExportService(dir string, uploader storage.Uploader, l logging.Logger) *ExportService {
	return &ExportService{
		dir:      dir,
		uploader: uploader,
		logger:   l.With("module", "export"),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *ExportService) Export(ctx context.Context, e models.EasitExport) (*ExportResult, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll([][]string{models.EasitColumns, e.Record()}); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir %s: %w", s.dir, err)
	}
	name := s.filename()
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}
	s.logger.Info(ctx, "easit export written", "path", path)

	if s.uploader != nil {
		key := "easit/" + name
		if err := s.uploader.Upload(ctx, key, bytes.NewReader(buf.Bytes()), "text/csv"); err != nil {
			s.logger.Error(ctx, "easit export mirror failed", "key", key, "error", err)
		}
	}

	return &ExportResult{Message: "exported to Easit", Path: path}, nil
}

// filename is easit_export_<UTC timestamp>_<8 hex>.csv with the timestamp's
// ':' and '.' replaced so it is valid on every filesystem.
func (s *ExportService) filename() string {
	ts := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return fmt.Sprintf("easit_export_%s_%s.csv", ts, s.newID()[:8])
}
