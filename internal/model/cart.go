package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user container of pending purchases. It is created on the
// first add and only ever emptied.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MaxLineQuantity is the most copies of one book a cart line may hold.
const MaxLineQuantity = 1000

// CartItem is one (cart, book) pair. Quantity is always at least one.
type CartItem struct {
	ID       int64 `json:"id" db:"id"`
	CartID   int64 `json:"-" db:"cart_id"`
	BookID   int64 `json:"bookId" db:"book_id"`
	Quantity int   `json:"quantity" db:"quantity"`
}

// CartLine is a cart item joined with its book for display.
type CartLine struct {
	ItemID   int64           `json:"itemId"`
	Book     Book            `json:"book"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the priced contents of a cart.
type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// AddToCartRequest is the optional body of an add-to-cart call.
type AddToCartRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=1000"`
}

// UpdateCartItemRequest sets the quantity of a cart item. Zero or less removes it.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"lte=1000"`
}
