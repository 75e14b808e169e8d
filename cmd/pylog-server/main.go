package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ozgurozkan01/pyLog/internal/archive"
	"github.com/ozgurozkan01/pyLog/internal/config"
	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/logging"
	"github.com/ozgurozkan01/pyLog/internal/ops"
	"github.com/ozgurozkan01/pyLog/internal/server"
	"github.com/ozgurozkan01/pyLog/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	importPath := flag.String("import", "", "Import a journal JSONL export (plain or .zst) into the store and exit")
	replay := flag.Bool("replay-archive", false, "Load every archived segment back into the store and exit")
	hashToken := flag.String("hash-token", "", "Print the bcrypt hash of a token for server.api_token_hash and exit")
	flag.Parse()

	if *hashToken != "" {
		hash, err := server.HashToken(*hashToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *importPath, *replay, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, importPath string, replay bool, logger *zap.Logger) error {
	st, err := store.Open(cfg.Store.Path, logger.Named(logging.ComponentStore))
	if err != nil {
		return err
	}
	defer st.Close()
	if total, err := st.Count(ctx); err == nil {
		logger.Info("store opened", zap.String("path", cfg.Store.Path), zap.Int("logs", total))
	}

	sinks := journal.MultiSink{st}
	var arc *archive.Archive
	if cfg.Archive.Enabled {
		arc, err = archive.New(cfg.Archive.Dir, cfg.Archive.MaxSizeMB, cfg.Archive.TTL)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		sinks = append(sinks, arc)
	}

	if importPath != "" {
		return importFile(ctx, importPath, sinks, logger.Named(logging.ComponentImport))
	}
	if replay {
		if arc == nil {
			return errors.New("-replay-archive needs archive.enabled")
		}
		// Store only; the records are already archived.
		return replayArchive(ctx, arc, st, logger.Named(logging.ComponentImport))
	}

	srv, err := server.New(cfg.Server, st, logger.Named(logging.ComponentServer))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Collector.Enabled {
		cursor, err := st.LastCursor(ctx)
		if err != nil {
			return err
		}
		collector := journal.NewCollector(
			journal.ExecRunner{Path: cfg.Collector.JournalctlPath},
			sinks,
			journal.CollectorOptions{
				Interval: cfg.Collector.Interval,
				Timeout:  cfg.Collector.Timeout,
				Since:    cfg.Collector.Since,
			},
			logger.Named(logging.ComponentCollector),
		)
		collector.SetCursor(cursor)
		g.Go(func() error { return collector.Run(gctx) })
	}

	if arc != nil && cfg.Archive.EvictInterval > 0 {
		arcLogger := logger.Named(logging.ComponentArchive)
		g.Go(func() error {
			return arc.Janitor(gctx, cfg.Archive.EvictInterval, func(removed int, err error) {
				if err != nil {
					arcLogger.Warn("archive eviction failed", zap.Error(err))
					return
				}
				if removed > 0 {
					arcLogger.Info("evicted archive segments",
						zap.Int("removed", removed),
						zap.Int64("size_bytes", arc.TotalSize()),
					)
				}
			})
		})
	}

	return g.Wait()
}

func importFile(ctx context.Context, path string, sink journal.Sink, logger *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	res, err := ops.ImportJSONL(ctx, f, sink, ops.DefaultBatchSize, logger, func(res ops.ImportResult) {
		logger.Debug("import progress", zap.Int("lines", res.Lines), zap.Int("written", res.Written))
	})
	if res != nil {
		logger.Info("import finished",
			zap.String("file", path),
			zap.Int("lines", res.Lines),
			zap.Int("written", res.Written),
			zap.Int("inserted", res.Inserted),
			zap.Int("failed", res.Failed),
		)
		for _, lineErr := range res.Errors {
			logger.Warn("skipped line", zap.Error(lineErr))
		}
	}
	return err
}

func replayArchive(ctx context.Context, arc *archive.Archive, sink journal.Sink, logger *zap.Logger) error {
	res, err := ops.ReplayArchive(ctx, arc, sink, logger, func(res ops.ImportResult) {
		logger.Debug("replay progress", zap.Int("written", res.Written))
	})
	if res != nil {
		logger.Info("replay finished",
			zap.Int("records", res.Lines),
			zap.Int("inserted", res.Inserted),
			zap.Int("unreadable_segments", res.Failed),
			zap.Int64("archive_bytes", arc.TotalSize()),
		)
	}
	return err
}
