package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"orcamento/internal/core"
)

// FileStore keeps one JSON document per period in a data directory,
// mirroring the layout the original app used (orcamento_YYYY_MM.json).
type FileStore struct {
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(p core.Period) string {
	return filepath.Join(fs.dir, fmt.Sprintf("orcamento_%04d_%02d.json", p.Year, p.Month))
}

// Load reads the snapshot for period. A missing file yields a default
// snapshot; an unparsable one is replaced by defaults as well, so a corrupt
// month never takes the ledger down.
func (fs *FileStore) Load(ctx context.Context, period core.Period) (core.Snapshot, error) {
	data, err := os.ReadFile(fs.path(period))
	if os.IsNotExist(err) {
		return core.NewSnapshot(), nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot %s: %w", period, err)
	}

	var snapshot core.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		slog.WarnContext(ctx, "Snapshot unreadable, substituting defaults",
			"period", period.String(), "error", err)
		return core.NewSnapshot(), nil
	}
	snapshot.Normalize()
	return snapshot, nil
}

// Save overwrites the snapshot document for period.
func (fs *FileStore) Save(ctx context.Context, period core.Period, snapshot core.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", period, err)
	}
	if err := os.WriteFile(fs.path(period), data, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", period, err)
	}
	slog.DebugContext(ctx, "Snapshot saved", "period", period.String(), "bytes", len(data))
	return nil
}
