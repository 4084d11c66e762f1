package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"airquality-dashboard/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// memoryDSN is a named in-memory database shared by every pooled connection.
const memoryDSN = "file:airquality?mode=memory&cache=shared"

// fileParams are appended to file-backed DSNs. WAL keeps readers off the
// writer lock during the startup load; busy_timeout covers the rest.
var fileParams = []string{
	"_foreign_keys=on",
	"_busy_timeout=5000",
	"_journal_mode=WAL",
}

// Open connects to the readings database described by cfg and verifies the
// connection. With DB_LOG_SQL every statement goes through the logging
// connector instead of the named driver.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := openPool(cfg, dsn)
	if err != nil {
		return nil, err
	}
	configurePool(db, cfg)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	slog.Debug("sqlite opened", "dsn", dsn, "log_sql", cfg.SQLiteLogSQL)
	return db, nil
}

func openPool(cfg config.Config, dsn string) (*sql.DB, error) {
	if !cfg.SQLiteLogSQL {
		db, err := sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return db, nil
	}
	connector, err := NewLoggingConnector(dsn, slog.Default().With("component", "sqlite"))
	if err != nil {
		return nil, fmt.Errorf("db connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// configurePool applies the pool limits; zero leaves the database/sql default.
func configurePool(db *sql.DB, cfg config.Config) {
	if cfg.SQLiteMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// buildDSN resolves DB_DSN, then SQLITE_PATH, then the shared in-memory
// database. The parent directory of a plain path is created.
func buildDSN(cfg config.Config) (string, error) {
	switch path := cfg.SQLitePath; {
	case cfg.SQLiteDSN != "":
		return cfg.SQLiteDSN, nil
	case path == "":
		return memoryDSN + "&_foreign_keys=on", nil
	case strings.HasPrefix(path, "file:"):
		return withParams(path), nil
	default:
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		return withParams("file:" + path), nil
	}
}

func withParams(uri string) string {
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	}
	return uri + sep + strings.Join(fileParams, "&")
}
