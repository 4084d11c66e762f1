package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"airquality-dashboard/internal/config"
)

func TestNew_releaseWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "airquality")

	logger.Debug("hidden")
	logger.Info("dataset loaded", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines; want 1 (debug filtered): %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("json.Unmarshal() = %v; want nil", err)
	}
	for k, want := range map[string]any{"msg": "dataset loaded", "app": "airquality", "version": "1.2.3", "env": "prod", "rows": float64(3)} {
		if rec[k] != want {
			t.Errorf("%s = %v; want %v", k, rec[k], want)
		}
	}
}

func TestNew_devUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}, "dev", "airquality")

	logger.Debug("template loaded", "name", "dashboard")

	out := buf.String()
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("dev output looks like JSON: %q", out)
	}
	for _, want := range []string{"template loaded", "app=", "airquality", "name=", "dashboard"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}
