// Migrate tool: copies notes, reactions, poll votes and notifications from
// Postgres into their Scylla tables and fills every local follower's home
// timeline. With --cleanup it drops the relational tables afterwards.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scylla-migration/internal/cleanup"
	"scylla-migration/internal/config"
	"scylla-migration/internal/db"
	"scylla-migration/internal/logger"
	"scylla-migration/internal/migrate"
	"scylla-migration/internal/progress"
	"scylla-migration/internal/sink"
	"scylla-migration/internal/source"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	fs := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	configPath := fs.String("config", ".config/default.yml", "path to the application config")
	kinds := fs.StringSlice("kinds", nil, "streams to run: notes, reactions, poll_votes, notifications (default all)")
	fs.Int("workers", 64, "units of work in flight per stream")
	fs.Int64("write-concurrency", 128, "destination writes in flight across the run")
	fs.Int("page-size", 1000, "keyset page size for source scans")
	fs.String("metrics-addr", "", "serve prometheus metrics on this address (empty = off)")
	fs.Bool("cleanup", false, "drop the relational tables after a successful copy")
	fs.Bool("dev", false, "development logging")
	fs.String("log-level", "info", "log level")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configPath, fs)
	if err == nil {
		err = cfg.ValidateSource()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	log, err := logger.New(logger.Config{Development: cfg.Log.Development, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *kinds, log); err != nil {
		log.Error("migration failed", zap.Error(err))
		var unit *migrate.UnitError
		if errors.As(err, &unit) {
			log.Error("failing row", zap.String("kind", string(unit.Kind)), zap.String("id", unit.ID))
		}
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, kinds []string, log *zap.Logger) error {
	selected, err := parseKinds(kinds)
	if err != nil {
		return err
	}

	pool, err := db.NewSourcePool(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer pool.Close()
	session, err := db.NewSession(cfg.Scylla)
	if err != nil {
		return err
	}
	defer session.Close()

	tracker := progress.New()
	if cfg.Migration.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.Migration.MetricsAddr, Handler: tracker.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", zap.String("addr", cfg.Migration.MetricsAddr))
	}

	m := migrate.New(
		source.New(pool, cfg.Migration.PageSize),
		sink.NewWriter(sink.GocqlExecer{Session: session}),
		log,
		tracker,
		migrate.Options{
			Workers:          cfg.Migration.Workers,
			WriteConcurrency: cfg.Migration.WriteConcurrency,
			ProgressInterval: cfg.ProgressInterval,
			Kinds:            selected,
		},
	)
	if err := m.Run(ctx); err != nil {
		return err
	}

	if !cfg.Migration.Cleanup {
		return nil
	}
	// A partial copy must never reach this point.
	if !coversAll(selected) {
		log.Warn("skipping cleanup: not every stream was migrated")
		return nil
	}
	cpool, err := db.NewCleanupPool(ctx, cfg.Db)
	if err != nil {
		return err
	}
	defer cpool.Close()
	return cleanup.Run(ctx, cpool, log)
}

// parseKinds resolves --kinds. Repeated names collapse to one stream.
func parseKinds(names []string) ([]source.Kind, error) {
	if len(names) == 0 {
		return source.Kinds, nil
	}
	var res []source.Kind
	seen := make(map[source.Kind]struct{}, len(names))
	for _, n := range names {
		k, ok := source.ParseKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown stream %q", n)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, k)
	}
	return res, nil
}

// coversAll reports whether every stream is in selected.
func coversAll(selected []source.Kind) bool {
	have := make(map[source.Kind]struct{}, len(selected))
	for _, k := range selected {
		have[k] = struct{}{}
	}
	for _, k := range source.Kinds {
		if _, ok := have[k]; !ok {
			return false
		}
	}
	return true
}
