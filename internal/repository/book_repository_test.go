package repository

import (
	"context"
	"testing"
	"time"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	ctx := context.Background()

	published := time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC)
	created := model.Book{
		Title:         "The Go Programming Language",
		Author:        "Alan Donovan",
		Price:         decimal.RequireFromString("39.99"),
		Description:   "K&R for Go.",
		PublishedDate: &published,
	}

	t.Run("Create fills generated fields", func(t *testing.T) {
		err := repo.Create(ctx, &created)

		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())
	})

	t.Run("GetByID returns the stored book", func(t *testing.T) {
		got, err := repo.GetByID(ctx, created.ID)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Author, got.Author)
		assert.True(t, created.Price.Equal(got.Price))
		require.NotNil(t, got.PublishedDate)
		assert.True(t, published.Equal(*got.PublishedDate))
	})

	t.Run("GetByID returns nil for a missing book", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999999)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Update replaces fields", func(t *testing.T) {
		updated := created
		updated.Price = decimal.RequireFromString("24.50")
		updated.Title = "The Go Programming Language, 2nd ed."

		err := repo.Update(ctx, &updated)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Title, got.Title)
		assert.True(t, decimal.RequireFromString("24.50").Equal(got.Price))
		assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("Update missing book", func(t *testing.T) {
		err := repo.Update(ctx, &model.Book{ID: 999999, Title: "x", Author: "y"})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})

	t.Run("Delete removes the book", func(t *testing.T) {
		err := repo.Delete(ctx, created.ID)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, repo.Delete(ctx, created.ID), model.ErrBookNotFound)
	})
}

func TestBookRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	ctx := context.Background()

	books := seedBooks(t, repo, "1.00", "2.00", "3.00")

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []int64
	}{
		{
			name:     "Newest first",
			limit:    10,
			offset:   0,
			expected: []int64{books[2].ID, books[1].ID, books[0].ID},
		},
		{
			name:     "With limit",
			limit:    2,
			offset:   0,
			expected: []int64{books[2].ID, books[1].ID},
		},
		{
			name:     "With offset",
			limit:    10,
			offset:   2,
			expected: []int64{books[0].ID},
		},
		{
			name:     "Offset beyond end",
			limit:    10,
			offset:   10,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetAll(ctx, tt.limit, tt.offset)
			require.NoError(t, err)

			var ids []int64
			for _, b := range got {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestBookRepository_GetByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookRepository(pool, zerolog.Nop())
	ctx := context.Background()

	books := seedBooks(t, repo, "5.00", "6.00")

	t.Run("Skips missing ids", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, []int64{books[1].ID, 999999, books[0].ID})

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, books[0].ID, got[0].ID)
		assert.Equal(t, books[1].ID, got[1].ID)
	})

	t.Run("Empty input", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("LockByIDs inside a transaction", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		got, err := repo.LockByIDs(ctx, tx, []int64{books[0].ID})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, decimal.RequireFromString("5.00").Equal(got[0].Price))
	})
}
