// Package cache holds the read-through cache for catalogue lookups.
package cache

import (
	"context"
	"errors"

	"bookstore/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

// BookCache caches individual books by id.
type BookCache interface {
	Get(ctx context.Context, id int64) (*model.Book, error)
	Set(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id int64) error
}

// Noop is a BookCache that never stores anything. Every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, int64) (*model.Book, error) { return nil, ErrCacheMiss }
func (Noop) Set(context.Context, *model.Book) error          { return nil }
func (Noop) Delete(context.Context, int64) error             { return nil }
