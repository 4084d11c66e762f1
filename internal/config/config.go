package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	AppEnv   string     `env:"APP_ENV" validate:"oneof=dev prod"`
	LogLevel slog.Level `env:"LOG_LEVEL"`
	HTTPAddr string     `env:"HTTP_ADDR" validate:"required"`

	// StaticDir is the absolute path to the directory served at /static/.
	// Set via STATIC_DIR (relative paths are resolved against the process working directory at startup).
	StaticDir string `env:"STATIC_DIR" validate:"required"`

	// DataPath is the pre-cleaned CSV read once at startup.
	DataPath     string         `env:"DATA_PATH" validate:"required"`
	DataTimezone string         `env:"DATA_TIMEZONE" validate:"required"`
	DataLocation *time.Location `env:"-"`
	DataStore    string         `env:"DATA_STORE" validate:"oneof=memory sqlite"`

	// Lang is the default dashboard language when a request has no ?lang=.
	Lang string `env:"DASHBOARD_LANG" validate:"oneof=en id"`

	SQLiteDriver          string        `env:"DB_DRIVER" validate:"required"`
	SQLiteDSN             string        `env:"DB_DSN"`
	SQLitePath            string        `env:"SQLITE_PATH"`
	SQLiteMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	SQLiteMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	SQLiteConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`
	SQLiteLogSQL          bool          `env:"DB_LOG_SQL"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report env var names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("env")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func LoadFromEnv() (Config, error) {
	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	staticDir := envOr("STATIC_DIR", "static")
	staticDir, err = filepath.Abs(staticDir)
	if err != nil {
		return Config{}, fmt.Errorf("STATIC_DIR %q: %w", staticDir, err)
	}

	timezone := envOr("DATA_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DATA_TIMEZONE %q: %w", timezone, err)
	}

	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", "1")
	if err != nil {
		return Config{}, err
	}

	connMaxLifetimeStr := envOr("DB_CONN_MAX_LIFETIME", "0s")
	connMaxLifetime, err := time.ParseDuration(connMaxLifetimeStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", connMaxLifetimeStr, err)
	}

	logSQLStr := envOr("DB_LOG_SQL", "false")
	logSQL, err := strconv.ParseBool(logSQLStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_LOG_SQL %q: %w", logSQLStr, err)
	}

	cfg := Config{
		AppEnv:                envOr("APP_ENV", "dev"),
		LogLevel:              level,
		HTTPAddr:              envOr("HTTP_ADDR", ":8080"),
		StaticDir:             staticDir,
		DataPath:              envOr("DATA_PATH", "main_data.csv"),
		DataTimezone:          timezone,
		DataLocation:          loc,
		DataStore:             strings.ToLower(envOr("DATA_STORE", "memory")),
		Lang:                  strings.ToLower(envOr("DASHBOARD_LANG", "en")),
		SQLiteDriver:          envOr("DB_DRIVER", "sqlite3"),
		SQLiteDSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath:            strings.TrimSpace(os.Getenv("SQLITE_PATH")),
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		SQLiteLogSQL:          logSQL,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first violation in
// terms of its environment variable.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q (allowed: %s)", fe.Field(), fmt.Sprint(fe.Value()), strings.Join(strings.Fields(fe.Param()), ", "))
	case "required":
		return fmt.Errorf("%s must not be empty", fe.Field())
	case "gte":
		return fmt.Errorf("invalid %s %v (must be >= %s)", fe.Field(), fe.Value(), fe.Param())
	default:
		return fmt.Errorf("invalid %s: %w", fe.Field(), fe)
	}
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key, fallback string) (int, error) {
	s := envOr(key, fallback)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
