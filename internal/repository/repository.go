package repository

import (
	"context"

	"bookstore/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BookRepository defines the interface for book data access operations.
type BookRepository interface {
	// GetAll retrieves books newest first with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Book, error)

	// GetByID retrieves a single book by its ID. Returns nil, nil when absent.
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// GetByIDs retrieves multiple books by their IDs. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Book, error)

	// LockByIDs reads the given books inside tx and holds a share lock on
	// them until the transaction ends.
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int64) ([]model.Book, error)

	// Create inserts a book and fills in its generated fields.
	Create(ctx context.Context, book *model.Book) error

	// Update replaces the editable fields of an existing book.
	Update(ctx context.Context, book *model.Book) error

	// Delete removes a book. Cart lines referencing it go with it.
	Delete(ctx context.Context, id int64) error
}

// RestoreFunc puts drained cart lines back after a failed checkout.
type RestoreFunc func(ctx context.Context) error

// CartRepository is the storage contract for shopping carts. Implementations
// exist for PostgreSQL and for key-value stores.
type CartRepository interface {
	// AddItem increments the quantity of the (user, book) line, creating the
	// cart and the line as needed.
	AddItem(ctx context.Context, userID string, bookID int64, quantity int) (*model.CartItem, error)

	// SetQuantity sets the quantity of an item in the user's cart.
	// Returns model.ErrCartItemNotFound when the item is not in that cart.
	SetQuantity(ctx context.Context, userID string, itemID int64, quantity int) error

	// RemoveItem deletes an item from the user's cart.
	// Returns model.ErrCartItemNotFound when the item is not in that cart.
	RemoveItem(ctx context.Context, userID string, itemID int64) error

	// Items returns the lines in the user's cart.
	Items(ctx context.Context, userID string) ([]model.CartItem, error)

	// Drain atomically removes and returns every line in the user's cart.
	// Table-backed stores do this inside tx so a rollback undoes it; other
	// stores ignore tx and rely on the returned RestoreFunc instead.
	Drain(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartItem, RestoreFunc, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	// Returns nil, nil, nil when the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves the user's orders newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another. Returns false
	// when the order was not in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error)
}
