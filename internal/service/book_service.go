package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"bookstore/internal/cache"
	"bookstore/internal/model"
	"bookstore/internal/repository"
	"bookstore/internal/validate"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// loadTimeout bounds a shared book read once it is detached from callers.
	loadTimeout = 5 * time.Second
)

// bookService implements BookService.
type bookService struct {
	bookRepo repository.BookRepository
	cache    cache.BookCache
	sfg      singleflight.Group
	logger   zerolog.Logger
}

// NewBookService creates a new book service. Pass cache.Noop{} to disable caching.
func NewBookService(bookRepo repository.BookRepository, bookCache cache.BookCache, logger zerolog.Logger) BookService {
	return &bookService{
		bookRepo: bookRepo,
		cache:    bookCache,
		logger:   logger.With().Str("service", "book").Logger(),
	}
}

// List retrieves books newest first with pagination.
func (s *bookService) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	books, err := s.bookRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to list books")
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	if books == nil {
		books = []model.Book{}
	}

	return books, nil
}

// Get retrieves a single book by ID. Concurrent misses for the same id share
// one database read, which runs detached from any single caller so one
// cancelled request does not fail the others. Each caller gets its own copy.
func (s *bookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	ch := s.sfg.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(loadCtx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			if !errors.Is(res.Err, model.ErrBookNotFound) {
				s.logger.Error().Err(res.Err).Int64("book_id", id).Msg("failed to get book")
			}
			return nil, res.Err
		}
		book := *res.Val.(*model.Book)
		return &book, nil
	}
}

// load reads a book through the cache, filling it on a miss.
func (s *bookService) load(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.cache.Get(ctx, id)
	if err == nil {
		return book, nil
	}

	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Int64("book_id", id).Msg("cache get failed")
	}

	book, err = s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}

	if err := s.cache.Set(ctx, book); err != nil {
		s.logger.Warn().Err(err).Int64("book_id", id).Msg("cache set failed")
	}

	return book, nil
}

// Create validates and inserts a new book.
func (s *bookService) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	if err := validate.Check(in); err != nil {
		return nil, err
	}

	var book model.Book
	in.Apply(&book)

	if err := s.bookRepo.Create(ctx, &book); err != nil {
		s.logger.Error().Err(err).Str("title", in.Title).Msg("failed to create book")
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info().Int64("book_id", book.ID).Msg("book created")

	return &book, nil
}

// Update validates and replaces an existing book.
func (s *bookService) Update(ctx context.Context, id int64, in model.BookInput) (*model.Book, error) {
	if err := validate.Check(in); err != nil {
		return nil, err
	}

	book := model.Book{ID: id}
	in.Apply(&book)

	if err := s.bookRepo.Update(ctx, &book); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("book_id", id).Msg("failed to update book")
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info().Int64("book_id", id).Msg("book updated")

	return &book, nil
}

// Delete removes a book from the catalogue.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.bookRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("book_id", id).Msg("failed to delete book")
		return fmt.Errorf("failed to delete book: %w", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info().Int64("book_id", id).Msg("book deleted")

	return nil
}

// invalidate drops the cached copy and detaches later readers from any read
// already in flight. That read may still write its older copy back, which is
// then served until the cache TTL expires.
func (s *bookService) invalidate(ctx context.Context, id int64) {
	s.sfg.Forget(strconv.FormatInt(id, 10))
	if err := s.cache.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("book_id", id).Msg("cache invalidate failed")
	}
}
