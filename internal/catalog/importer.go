package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// Summary reports the outcome of an import run.
type Summary struct {
	Files     int
	Imported  int
	Rejected  int
	Malformed int
}

// Importer loads feed files and stores their books.
type Importer struct {
	loader  Loader
	creator BookCreator
	logger  zerolog.Logger
}

// NewImporter creates an importer. Books are stored through creator, which
// is expected to validate them.
func NewImporter(loader Loader, creator BookCreator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		creator: creator,
		logger:  logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads all paths concurrently, then stores their books in path
// order. Records failing validation are counted and skipped; any other
// error stops the import.
func (i *Importer) Import(ctx context.Context, paths []string) (*Summary, error) {
	i.logger.Info().Int("file_count", len(paths)).Msg("importing catalogue feeds")

	type loadResult struct {
		index int
		feed  *Feed
		err   error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			feed, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{
				index: index,
				feed:  feed,
				err:   err,
			}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", paths[idx]).
				Msg("failed to load feed file")
			return nil, fmt.Errorf("failed to load feed file %s: %w", paths[idx], result.err)
		}
	}

	summary := &Summary{Files: len(paths)}
	for _, result := range results {
		summary.Malformed += result.feed.Malformed

		for n, in := range result.feed.Books {
			_, err := i.creator.Create(ctx, in)
			if err == nil {
				summary.Imported++
				continue
			}

			var domainErr *model.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == model.ErrCodeValidationFailed {
				i.logger.Warn().
					Str("source", result.feed.Source).
					Int("record", n+1).
					Str("reason", domainErr.Message).
					Msg("rejected feed record")
				summary.Rejected++
				continue
			}

			return summary, fmt.Errorf("failed to store book from %s: %w", result.feed.Source, err)
		}
	}

	i.logger.Info().
		Int("imported", summary.Imported).
		Int("rejected", summary.Rejected).
		Int("malformed", summary.Malformed).
		Msg("catalogue import finished")

	return summary, nil
}
