package db

import (
	"path/filepath"
	"strings"
	"testing"

	"airquality-dashboard/internal/config"
)

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  config.Config{SQLiteDSN: "file:custom.db", SQLitePath: "ignored.db"},
			want: "file:custom.db",
		},
		{
			name: "empty path is shared memory",
			cfg:  config.Config{},
			want: memoryDSN + "&_foreign_keys=on",
		},
		{
			name: "plain path",
			cfg:  config.Config{SQLitePath: filepath.Join(dir, "nested", "app.db")},
			want: "file:" + filepath.Join(dir, "nested", "app.db") + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "file uri with params",
			cfg:  config.Config{SQLitePath: "file:app.db?cache=shared"},
			want: "file:app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if err != nil {
				t.Fatalf("buildDSN() = %v; want nil", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("in-memory", func(t *testing.T) {
		db, err := Open(config.Config{SQLiteDriver: "sqlite3", SQLiteMaxOpenConns: 1, SQLiteMaxIdleConns: 1})
		if err != nil {
			t.Fatalf("Open() = %v; want nil", err)
		}
		defer func() { _ = Close(db) }()
		if err := db.Ping(); err != nil {
			t.Errorf("Ping() = %v; want nil", err)
		}
	})

	t.Run("file with sql logging", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "airquality.db")
		db, err := Open(config.Config{SQLiteDriver: "sqlite3", SQLitePath: path, SQLiteLogSQL: true, SQLiteMaxOpenConns: 1})
		if err != nil {
			t.Fatalf("Open() = %v; want nil", err)
		}
		defer func() { _ = Close(db) }()
		var mode string
		if err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
			t.Fatalf("journal_mode: %v", err)
		}
		if !strings.EqualFold(mode, "wal") {
			t.Errorf("journal_mode = %q; want wal", mode)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		if _, err := Open(config.Config{SQLiteDriver: "nope"}); err == nil {
			t.Fatal("Open() = nil; want error")
		}
	})

	t.Run("close nil", func(t *testing.T) {
		if err := Close(nil); err != nil {
			t.Errorf("Close(nil) = %v; want nil", err)
		}
	})
}
