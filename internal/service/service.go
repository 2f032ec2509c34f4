package service

import (
	"context"

	"bookstore/internal/model"

	"github.com/google/uuid"
)

// BookService defines operations for the catalogue.
type BookService interface {
	// List retrieves books newest first with pagination.
	List(ctx context.Context, limit, offset int) ([]model.Book, error)

	// Get retrieves a single book by ID.
	Get(ctx context.Context, id int64) (*model.Book, error)

	// Create validates and inserts a new book.
	Create(ctx context.Context, in model.BookInput) (*model.Book, error)

	// Update validates and replaces an existing book.
	Update(ctx context.Context, id int64, in model.BookInput) (*model.Book, error)

	// Delete removes a book from the catalogue.
	Delete(ctx context.Context, id int64) error
}

// CartService defines operations on a user's shopping cart.
type CartService interface {
	// Add puts quantity copies of a book in the user's cart. A zero
	// quantity means one.
	Add(ctx context.Context, userID string, bookID int64, quantity int) (*model.CartItem, error)

	// UpdateQuantity sets an item's quantity; zero or less removes it.
	UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) error

	// Remove deletes an item from the user's cart.
	Remove(ctx context.Context, userID string, itemID int64) error

	// View returns the priced contents of the user's cart.
	View(ctx context.Context, userID string) (*model.CartView, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout converts the user's cart into a pending order.
	Checkout(ctx context.Context, userID string) (*model.OrderDetail, error)

	// Get retrieves one of the user's orders with its items.
	Get(ctx context.Context, userID string, id uuid.UUID) (*model.OrderDetail, error)

	// List retrieves the user's orders newest first.
	List(ctx context.Context, userID string) ([]model.Order, error)

	// Complete marks a pending order as completed.
	Complete(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)
}
