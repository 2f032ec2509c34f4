// Package catalog imports books from gzipped JSON-lines feed files held on
// the local file system or in S3.
package catalog

import (
	"context"

	"bookstore/internal/model"
)

// Feed is the parsed content of one feed file.
type Feed struct {
	// Source is the path or S3 key the feed was read from.
	Source string

	// Books holds the well-formed records, not yet validated.
	Books []model.BookInput

	// Malformed counts lines that were not valid JSON.
	Malformed int
}

// Loader defines the interface for loading feed files.
type Loader interface {
	// Load reads a gzipped feed file and returns its records.
	Load(ctx context.Context, path string) (*Feed, error)
}

// BookCreator validates and stores a single book.
type BookCreator interface {
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)
}
