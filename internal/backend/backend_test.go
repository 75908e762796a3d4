package backend

import (
	"context"
	"path/filepath"
	"testing"

	"orcamento/internal/config"
	"orcamento/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		app     *config.Config
		want    Type
		wantErr bool
	}{
		{name: "file backend", app: &config.Config{DataBackend: "file", DataDir: "./data"}, want: FileBackend},
		{name: "sqlite backend", app: &config.Config{DataBackend: "sqlite", SQLiteDBPath: "./data/test.db"}, want: SQLiteBackend},
		{name: "nil config", app: nil, wantErr: true},
		{name: "unknown backend", app: &config.Config{DataBackend: "memory"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAppConfig(tt.app)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAppConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Type != tt.want {
				t.Errorf("FromAppConfig() Type = %v, want %v", got.Type, tt.want)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid file", config: Config{Type: FileBackend, DataDir: "./data"}},
		{name: "valid sqlite", config: Config{Type: SQLiteBackend, SQLiteDBPath: "./data/test.db"}},
		{name: "file without dir", config: Config{Type: FileBackend}, wantErr: true},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: true},
		{name: "invalid type", config: Config{Type: "memory"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactoryCreateFileBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.Create(Config{Type: FileBackend, DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Store == nil {
		t.Fatal("Create() returned nil store")
	}
	if result.Cleanup != nil {
		t.Error("file backend should not need cleanup")
	}

	snapshot, err := result.Store.Load(context.Background(), core.Period{Year: 2025, Month: 3})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snapshot.CashBoxes.InvestmentBalances) == 0 {
		t.Error("fresh snapshot missing default buckets")
	}
}

func TestFactoryCreateSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	result, err := f.Create(Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must provide cleanup")
	}
	defer result.Cleanup()

	if _, err := result.Store.Load(context.Background(), core.Period{Year: 2025, Month: 3}); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}
