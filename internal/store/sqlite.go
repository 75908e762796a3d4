package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"orcamento/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one snapshot document per (year, month) row. The
// document column holds the same JSON the file backend writes, so the two
// backends stay interchangeable.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the snapshot row for period. A missing row yields a default
// snapshot, and an unparsable document is substituted with defaults.
func (s *SQLiteStore) Load(ctx context.Context, period core.Period) (core.Snapshot, error) {
	var document string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM snapshots WHERE year = ? AND month = ?`,
		period.Year, period.Month,
	).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewSnapshot(), nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("query snapshot %s: %w", period, err)
	}

	var snapshot core.Snapshot
	if err := json.Unmarshal([]byte(document), &snapshot); err != nil {
		slog.WarnContext(ctx, "Snapshot unreadable, substituting defaults",
			"period", period.String(), "error", err)
		return core.NewSnapshot(), nil
	}
	snapshot.Normalize()
	return snapshot, nil
}

// Save upserts the snapshot document for period.
func (s *SQLiteStore) Save(ctx context.Context, period core.Period, snapshot core.Snapshot) error {
	document, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", period, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (year, month, document, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (year, month)
		 DO UPDATE SET document = excluded.document, updated_at = CURRENT_TIMESTAMP`,
		period.Year, period.Month, string(document),
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", period, err)
	}
	return nil
}
