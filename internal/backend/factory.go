package backend

import (
	"fmt"
	"log/slog"

	"orcamento/internal/store"
)

// Factory builds period stores from backend configuration.
type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create constructs the store named by config.
func (f *Factory) Create(config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		return f.createFileBackend(config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createFileBackend(config Config) (*Result, error) {
	fs, err := store.NewFileStore(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	f.logger.Info("Initialized file backend", "data_directory", config.DataDir)

	return &Result{Store: fs}, nil
}

func (f *Factory) createSQLiteBackend(config Config) (*Result, error) {
	db, err := store.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{Store: db, Cleanup: db.Close}, nil
}
