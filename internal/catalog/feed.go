package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
)

// Check for cancellation every this many lines.
const cancelCheckInterval = 1000

// parseFeed reads gzipped JSON lines from r, one book per line.
func parseFeed(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*Feed, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	feed := &Feed{Source: source}

	scanner := bufio.NewScanner(gzipReader)
	// Descriptions can run to several KB
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("feed loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var in model.BookInput
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			logger.Warn().
				Err(err).
				Str("source", source).
				Int("line", lineNo).
				Msg("skipping malformed feed line")
			feed.Malformed++
			continue
		}
		feed.Books = append(feed.Books, in)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Str("source", source).Msg("error reading feed")
		return nil, fmt.Errorf("error reading feed %s: %w", source, err)
	}

	return feed, nil
}
