// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielhkuo/political-dashboard/auth"
	"github.com/danielhkuo/political-dashboard/cliparse"
	"github.com/danielhkuo/political-dashboard/db"
	"github.com/danielhkuo/political-dashboard/logging"
	"github.com/danielhkuo/political-dashboard/metrics"
	"github.com/danielhkuo/political-dashboard/middleware"
	"github.com/danielhkuo/political-dashboard/router"
	"github.com/danielhkuo/political-dashboard/snapshot"
	"github.com/danielhkuo/political-dashboard/survey"
)

const (
	shutdownTimeout = 10 * time.Second
	archiveTimeout  = 30 * time.Second
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := cliparse.Load(cmd.Flags())
	if err != nil {
		return err
	}

	restore, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer restore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AdminKey == "" {
		key, err := auth.GenerateAdminKey()
		if err != nil {
			return err
		}
		cfg.AdminKey = key
		zap.S().Warnw("no admin key configured, generated one for this run", "admin_key", key)
	}

	m := metrics.New(true)
	store := snapshot.NewStore(countLoads(snapshot.FileLoader(cfg.DataFile, loadOptions(cfg)), m))
	store.OnPublish(func(_ context.Context, ds *survey.Dataset) {
		m.ObserveDataset(len(ds.Countries()), map[string]int{
			string(survey.MetricIssues):      ds.Problems.Len(),
			string(survey.MetricOrientation): ds.Orientation.Len(),
		})
	})

	var archive *db.Archive
	if cfg.ArchiveEnabled() {
		conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		zap.S().Infow("snapshot archive ready", "type", cfg.DatabaseType)

		archive = db.NewArchive(conn)
		store.OnPublish(recordSnapshot(archive))
	}

	// Startup fails without a dataset
	if _, err := store.Load(ctx); err != nil {
		zap.S().Errorw("failed to load workbook", "path", cfg.DataFile, "error", err)
		return err
	}

	if cfg.Watch {
		go func() {
			if err := snapshot.Watch(ctx, store, cfg.DataFile, snapshot.DefaultDebounce); err != nil {
				zap.S().Errorw("workbook watcher stopped", "error", err)
			}
		}()
	}

	server := &http.Server{
		Handler:           middleware.CORS(router.NewRouter(store, archive, cfg, m)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.S().Warnw("graceful shutdown failed", "error", err)
		}
	}()

	zap.S().Infow("Listening", "port", cfg.Port, "data", cfg.DataFile, "watch", cfg.Watch)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Errorw("Server closed", "error", err)
		return err
	}
	zap.S().Infow("Server closed")
	return nil
}

// countLoads records the outcome of every workbook load.
func countLoads(load snapshot.LoaderFunc, m *metrics.Metrics) snapshot.LoaderFunc {
	return func(ctx context.Context) (*survey.Dataset, error) {
		ds, err := load(ctx)
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.ReloadsTotal.WithLabelValues(result).Inc()
		return ds, err
	}
}

// recordSnapshot archives every published dataset. Failures are only
// logged.
func recordSnapshot(archive *db.Archive) snapshot.Observer {
	return func(ctx context.Context, ds *survey.Dataset) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
		defer cancel()

		snap, created, err := archive.Record(ctx, ds)
		if err != nil {
			zap.S().Errorw("failed to archive snapshot", "checksum", ds.Source.Checksum, "error", err)
			return
		}
		zap.S().Infow("snapshot archived", "id", snap.ID, "created", created)
	}
}
