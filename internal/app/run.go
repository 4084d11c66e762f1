package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"airquality-dashboard/internal/config"
	"airquality-dashboard/internal/dataset"
	db "airquality-dashboard/internal/db"
	"airquality-dashboard/internal/db/migrate"
	httpapi "airquality-dashboard/internal/httpapi"
	airquality "airquality-dashboard/internal/modules/airquality"
	airqualityviews "airquality-dashboard/internal/modules/airquality/views"
	"airquality-dashboard/internal/store"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"dataPath", cfg.DataPath,
		"dataTimezone", cfg.DataTimezone,
		"dataStore", cfg.DataStore,
		"lang", cfg.Lang,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"sqliteMaxIdleConns", cfg.SQLiteMaxIdleConns,
		"sqliteConnMaxLifetime", cfg.SQLiteConnMaxLifetime,
	)

	opts := dataset.DefaultLoadOptions()
	opts.Location = cfg.DataLocation
	readings, stats, err := dataset.LoadCSV(cfg.DataPath, opts)
	if err != nil {
		return err
	}
	if stats.Dropped > 0 {
		slog.Warn("rows dropped while loading dataset", "path", cfg.DataPath, "dropped", stats.Dropped, "rows", stats.Rows)
	}
	slog.Info("dataset loaded", "path", cfg.DataPath, "readings", len(readings))

	readingStore, closeStore, err := openStore(ctx, cfg, readings)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := airqualityviews.LoadTemplates(); err != nil {
		return err
	}
	mux := httpapi.NewMux(readingStore, cfg.StaticDir)
	airquality.RegisterFeature(mux, readingStore, cfg.DataLocation, cfg.Lang)

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// openStore puts readings behind the configured ReadingStore. The returned
// func releases whatever the store holds open.
func openStore(ctx context.Context, cfg config.Config, readings []dataset.Reading) (store.ReadingStore, func(), error) {
	switch cfg.DataStore {
	case "memory":
		return store.NewMemoryStore(readings), func() {}, nil
	case "sqlite":
	default:
		return nil, nil, fmt.Errorf("unknown DATA_STORE %q", cfg.DataStore)
	}

	dbConn, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}

	if err := loadSQLite(ctx, dbConn, cfg, readings); err != nil {
		closeDB()
		return nil, nil, err
	}
	return store.NewSQLiteStore(dbConn, cfg.DataLocation), closeDB, nil
}

func loadSQLite(ctx context.Context, dbConn *sql.DB, cfg config.Config, readings []dataset.Reading) error {
	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	s := store.NewSQLiteStore(dbConn, cfg.DataLocation)
	if err := s.Load(ctx, readings); err != nil {
		return err
	}
	n, err := s.Count(ctx)
	if err != nil {
		return err
	}
	slog.Info("sqlite store loaded", "readings", n)
	return nil
}
