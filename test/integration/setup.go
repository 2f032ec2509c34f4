package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bookstore/internal/database"
	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the bookstore schema
// applied.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedBooks inserts a small catalogue and returns the books in insertion order.
func SeedBooks(t *testing.T, pool *pgxpool.Pool) []model.Book {
	t.Helper()

	repo := repository.NewBookRepository(pool, zerolog.Nop())

	seed := []struct {
		title  string
		author string
		price  string
	}{
		{"Dune", "Frank Herbert", "9.99"},
		{"Emma", "Jane Austen", "4.50"},
		{"Ulysses", "James Joyce", "12.00"},
	}

	books := make([]model.Book, 0, len(seed))
	for _, s := range seed {
		b := model.Book{Title: s.title, Author: s.author, Price: decimal.RequireFromString(s.price)}
		if err := repo.Create(context.Background(), &b); err != nil {
			t.Fatalf("failed to seed book %q: %v", s.title, err)
		}
		books = append(books, b)
	}
	return books
}

// CleanupDB removes all rows from the bookstore tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	tables := []string{"order_items", "orders", "cart_items", "carts", "books"}
	for _, table := range tables {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("DELETE FROM %s", pgx.Identifier{table}.Sanitize()))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
