package repository

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// bookRepository implements the BookRepository interface using PostgreSQL.
type bookRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBookRepository creates a new PostgreSQL-backed book repository.
func NewBookRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookRepository {
	return &bookRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "book").Logger(),
	}
}

// GetAll retrieves books newest first with pagination support.
func (r *bookRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query books")
		return nil, fmt.Errorf("failed to query books: %w", err)
	}

	books, err := collectBooks(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read book rows")
		return nil, fmt.Errorf("failed to read books: %w", err)
	}

	return books, nil
}

// GetByID retrieves a single book by its ID.
func (r *bookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1
	`

	var b model.Book
	err := scanBook(r.pool.QueryRow(ctx, query, id), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("book_id", id).Msg("book not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("book_id", id).Msg("failed to query book")
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	return &b, nil
}

// GetByIDs retrieves multiple books by their IDs.
func (r *bookRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Book, error) {
	return r.byIDs(ctx, r.pool, ids, "")
}

// LockByIDs reads the given books inside tx with FOR SHARE so that a
// concurrent price change or delete waits for the transaction to finish.
func (r *bookRepository) LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Book, error) {
	return r.byIDs(ctx, tx, ids, "FOR SHARE")
}

func (r *bookRepository) byIDs(ctx context.Context, q querier, ids []int64, lock string) ([]model.Book, error) {
	if len(ids) == 0 {
		return []model.Book{}, nil
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = ANY($1)
		ORDER BY id
	` + lock

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query books by IDs")
		return nil, fmt.Errorf("failed to query books by IDs: %w", err)
	}

	books, err := collectBooks(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read book rows")
		return nil, fmt.Errorf("failed to read books: %w", err)
	}

	return books, nil
}

// Create inserts a book and fills in its generated fields.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author, price, description, published_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.Title, book.Author, book.Price, book.Description, book.PublishedDate,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("title", book.Title).Msg("failed to create book")
		return fmt.Errorf("failed to create book: %w", err)
	}

	r.logger.Debug().Int64("book_id", book.ID).Msg("book created successfully")

	return nil
}

// Update replaces the editable fields of an existing book.
func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, price = $4, description = $5, published_date = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.ID, book.Title, book.Author, book.Price, book.Description, book.PublishedDate,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		r.logger.Error().Err(err).Int64("book_id", book.ID).Msg("failed to update book")
		return fmt.Errorf("failed to update book: %w", err)
	}

	return nil
}

// Delete removes a book.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("book_id", id).Msg("failed to delete book")
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	r.logger.Debug().Int64("book_id", id).Msg("book deleted")

	return nil
}
