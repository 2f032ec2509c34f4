// Command seed imports catalogue feed files into the database.
//
// Usage:
//
//	seed [-prefix feeds/] data/feeds/books1.jsonl.gz [more.jsonl.gz ...]
//
// Feeds are read from S3 when S3_ENABLED is set, falling back to the local
// path. Database and logger settings come from the same environment as the
// API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookstore/internal/cache"
	"bookstore/internal/catalog"
	"bookstore/internal/config"
	"bookstore/internal/database"
	"bookstore/internal/repository"
	"bookstore/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	prefix := flag.String("prefix", "", "S3 key prefix (defaults to S3_PREFIX)")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		return fmt.Errorf("at least one feed file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	fileLoader := catalog.NewFileLoader(logger)
	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		s3Loader, err = catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	}

	s3Prefix := cfg.S3.Prefix
	if *prefix != "" {
		s3Prefix = *prefix
	}
	loader := catalog.NewFallbackLoader(s3Loader, fileLoader, s3Prefix, cfg.S3.Enabled, logger)

	books := service.NewBookService(repository.NewBookRepository(pool, logger), cache.Noop{}, logger)

	summary, err := catalog.NewImporter(loader, books, logger).Import(ctx, paths)
	if err != nil {
		return err
	}

	fmt.Printf("imported %d books from %d files (%d rejected, %d malformed lines)\n",
		summary.Imported, summary.Files, summary.Rejected, summary.Malformed)

	return nil
}
