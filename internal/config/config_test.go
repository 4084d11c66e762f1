package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STATIC_DIR",
	"DATA_PATH", "DATA_TIMEZONE", "DATA_STORE", "DASHBOARD_LANG",
	"DB_DRIVER", "DB_DSN", "SQLITE_PATH",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_LOG_SQL",
}

// clearEnv resets every key so that defaults apply unless a test sets one.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}

	if got.AppEnv != "dev" {
		t.Errorf("AppEnv = %q, want %q", got.AppEnv, "dev")
	}
	if got.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want %v", got.LogLevel, slog.LevelInfo)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", got.HTTPAddr, ":8080")
	}
	if !filepath.IsAbs(got.StaticDir) || filepath.Base(got.StaticDir) != "static" {
		t.Errorf("StaticDir = %q, want absolute path ending in static", got.StaticDir)
	}
	if got.DataPath != "main_data.csv" {
		t.Errorf("DataPath = %q, want main_data.csv", got.DataPath)
	}
	if got.DataLocation != time.UTC {
		t.Errorf("DataLocation = %v, want UTC", got.DataLocation)
	}
	if got.DataStore != "memory" {
		t.Errorf("DataStore = %q, want memory", got.DataStore)
	}
	if got.Lang != "en" {
		t.Errorf("Lang = %q, want en", got.Lang)
	}
	if got.SQLiteDriver != "sqlite3" || got.SQLitePath != "" || got.SQLiteLogSQL {
		t.Errorf("sqlite defaults = %q, %q, %v; want sqlite3, empty, false", got.SQLiteDriver, got.SQLitePath, got.SQLiteLogSQL)
	}
	if got.SQLiteMaxOpenConns != 1 || got.SQLiteMaxIdleConns != 1 || got.SQLiteConnMaxLifetime != 0 {
		t.Errorf("pool = %d/%d/%v; want 1/1/0s", got.SQLiteMaxOpenConns, got.SQLiteMaxIdleConns, got.SQLiteConnMaxLifetime)
	}
}

func TestLoadFromEnv_AppEnv_Valid(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
		want   string
	}{
		{name: "dev", appEnv: "dev", want: "dev"},
		{name: "prod", appEnv: "prod", want: "prod"},
		{name: "dev with whitespace", appEnv: "  dev  ", want: "dev"},
		{name: "prod with whitespace", appEnv: "\nprod\t", want: "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)

			got, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("LoadFromEnv() error = %v, want nil", err)
			}
			if got.AppEnv != tt.want {
				t.Errorf("AppEnv = %q, want %q", got.AppEnv, tt.want)
			}
		})
	}
}

func TestLoadFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantMsg string
	}{
		{name: "staging env", key: "APP_ENV", value: "staging", wantMsg: `invalid APP_ENV "staging" (allowed: dev, prod)`},
		{name: "uppercase env", key: "APP_ENV", value: "DEV", wantMsg: "APP_ENV"},
		{name: "unknown store", key: "DATA_STORE", value: "redis", wantMsg: `invalid DATA_STORE "redis" (allowed: memory, sqlite)`},
		{name: "unknown language", key: "DASHBOARD_LANG", value: "fr", wantMsg: `invalid DASHBOARD_LANG "fr" (allowed: en, id)`},
		{name: "unknown timezone", key: "DATA_TIMEZONE", value: "Mars/Olympus", wantMsg: "DATA_TIMEZONE"},
		{name: "log level", key: "LOG_LEVEL", value: "loud", wantMsg: "LOG_LEVEL"},
		{name: "open conns not a number", key: "DB_MAX_OPEN_CONNS", value: "many", wantMsg: "DB_MAX_OPEN_CONNS"},
		{name: "negative idle conns", key: "DB_MAX_IDLE_CONNS", value: "-1", wantMsg: "DB_MAX_IDLE_CONNS"},
		{name: "bad lifetime", key: "DB_CONN_MAX_LIFETIME", value: "forever", wantMsg: "DB_CONN_MAX_LIFETIME"},
		{name: "bad bool", key: "DB_LOG_SQL", value: "maybe", wantMsg: "DB_LOG_SQL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			if err == nil {
				t.Fatalf("LoadFromEnv() error = nil, want non-nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "  127.0.0.1:8081  ")
	t.Setenv("DATA_PATH", "testdata/beijing.csv")
	t.Setenv("DATA_TIMEZONE", "Asia/Shanghai")
	t.Setenv("DATA_STORE", "SQLite")
	t.Setenv("DASHBOARD_LANG", "id")
	t.Setenv("SQLITE_PATH", "/tmp/aq.db")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")
	t.Setenv("DB_LOG_SQL", "true")

	got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v, want nil", err)
	}
	if got.HTTPAddr != "127.0.0.1:8081" {
		t.Errorf("HTTPAddr = %q, want 127.0.0.1:8081", got.HTTPAddr)
	}
	if got.DataPath != "testdata/beijing.csv" {
		t.Errorf("DataPath = %q", got.DataPath)
	}
	if got.DataLocation.String() != "Asia/Shanghai" {
		t.Errorf("DataLocation = %v, want Asia/Shanghai", got.DataLocation)
	}
	if got.DataStore != "sqlite" || got.Lang != "id" {
		t.Errorf("DataStore, Lang = %q, %q; want sqlite, id", got.DataStore, got.Lang)
	}
	if got.SQLitePath != "/tmp/aq.db" || got.SQLiteMaxOpenConns != 4 || got.SQLiteConnMaxLifetime != 5*time.Minute || !got.SQLiteLogSQL {
		t.Errorf("sqlite = %+v", got)
	}
}

func TestParseLogLevel_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want slog.Level
	}{
		{name: "debug", in: "debug", want: slog.LevelDebug},
		{name: "info", in: "info", want: slog.LevelInfo},
		{name: "warning", in: "warning", want: slog.LevelWarn},
		{name: "error", in: "error", want: slog.LevelError},
		{name: "case insensitive", in: "DeBuG", want: slog.LevelDebug},
		{name: "trims whitespace", in: "  warn \n", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if err != nil {
				t.Fatalf("parseLogLevel(%q) error = %v, want nil", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLogLevel_Invalid(t *testing.T) {
	for _, in := range []string{"", "nope", "warns", "1"} {
		t.Run(in, func(t *testing.T) {
			got, err := parseLogLevel(in)
			if err == nil {
				t.Fatalf("parseLogLevel(%q) error = nil, want non-nil", in)
			}
			if got != slog.LevelInfo {
				t.Errorf("parseLogLevel(%q) = %v, want %v on error", in, got, slog.LevelInfo)
			}
		})
	}
}
