package db

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
)

// captureHandler records log records for assertion in tests.
type captureHandler struct {
	mu      sync.Mutex
	records []map[string]slog.Value
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := map[string]slog.Value{
		"msg":   slog.StringValue(r.Message),
		"level": slog.StringValue(r.Level.String()),
	}
	r.Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value
		return true
	})
	h.records = append(h.records, m)
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *captureHandler) WithGroup(string) slog.Handler { return h }

func (h *captureHandler) last(t *testing.T, msg string) map[string]slog.Value {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i]["msg"].String() == msg {
			return h.records[i]
		}
	}
	t.Fatalf("no %q log record", msg)
	return nil
}

func (h *captureHandler) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

func openLogged(t *testing.T) (*sql.DB, *captureHandler) {
	t.Helper()
	handler := &captureHandler{}
	connector, err := NewLoggingConnector(":memory:", slog.New(handler))
	if err != nil {
		t.Fatalf("NewLoggingConnector() = %v; want nil", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db, handler
}

func TestNewLoggingConnector(t *testing.T) {
	t.Run("nil logger uses default", func(t *testing.T) {
		conn, err := NewLoggingConnector(":memory:", nil)
		if err != nil {
			t.Fatalf("NewLoggingConnector() = %v; want nil", err)
		}
		if conn.(*loggingConnector).logger == nil {
			t.Fatal("logger is nil")
		}
	})

	t.Run("empty dsn is rejected", func(t *testing.T) {
		if _, err := NewLoggingConnector("", nil); err == nil {
			t.Fatal("NewLoggingConnector(\"\") = nil; want error")
		}
	})

	t.Run("driver refuses direct open", func(t *testing.T) {
		conn, _ := NewLoggingConnector(":memory:", nil)
		if _, err := conn.Driver().Open(":memory:"); err == nil {
			t.Fatal("Driver().Open() = nil; want error")
		}
	})
}

func TestLoggingConnector_execLogged(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Exec(`CREATE TABLE readings (ts TEXT, pm25 REAL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	got := handler.last(t, "sql")
	if got["op"].String() != "exec" {
		t.Errorf("op = %q; want exec", got["op"].String())
	}
	if got["sql"].String() != `CREATE TABLE readings (ts TEXT, pm25 REAL)` {
		t.Errorf("sql = %q", got["sql"].String())
	}
	if _, ok := got["duration"]; !ok {
		t.Error("missing duration attribute")
	}

	handler.reset()
	if _, err := db.Exec(`INSERT INTO readings (ts, pm25) VALUES (?, ?)`, "2013-03-01", nil); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got = handler.last(t, "sql")
	args, ok := got["args"].Any().([]string)
	if !ok || len(args) != 2 || args[0] != "2013-03-01" || args[1] != "NULL" {
		t.Errorf("args = %v; want [2013-03-01 NULL]", got["args"].Any())
	}
}

func TestLoggingConnector_multiStatementExec(t *testing.T) {
	db, _ := openLogged(t)

	script := `CREATE TABLE a (id INTEGER); CREATE TABLE b (id INTEGER);`
	if _, err := db.Exec(script); err != nil {
		t.Fatalf("exec script: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('a', 'b')`).Scan(&n); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 2 {
		t.Errorf("tables created = %d; want 2", n)
	}
}

func TestLoggingConnector_queryLogged(t *testing.T) {
	db, handler := openLogged(t)

	var one int
	if err := db.QueryRow(`SELECT 1`).Scan(&one); err != nil {
		t.Fatalf("query row: %v", err)
	}
	got := handler.last(t, "sql")
	if got["op"].String() != "query" {
		t.Errorf("op = %q; want query", got["op"].String())
	}
	if got["sql"].String() != `SELECT 1` {
		t.Errorf("sql = %q", got["sql"].String())
	}
	if got["level"].String() != slog.LevelDebug.String() {
		t.Errorf("level = %s; want DEBUG", got["level"].String())
	}
}

func TestLoggingConnector_failedPrepareLogged(t *testing.T) {
	db, handler := openLogged(t)

	if _, err := db.Query(`SELECT * FROM missing_table`); err == nil {
		t.Fatal("Query() = nil; want error")
	}
	got := handler.last(t, "sql prepare failed")
	if got["level"].String() != slog.LevelWarn.String() {
		t.Errorf("level = %s; want WARN", got["level"].String())
	}
}

func TestLoggingConnector_ping(t *testing.T) {
	db, _ := openLogged(t)
	if err := db.Ping(); err != nil {
		t.Fatalf("Ping() = %v; want nil", err)
	}
}
