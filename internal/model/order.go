package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// MaxOrderTotal is the largest total an order can record (NUMERIC(10,2)).
var MaxOrderTotal = decimal.RequireFromString("99999999.99")

// Order represents a customer order. TotalPrice is fixed at creation.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     string          `json:"userId" db:"user_id"`
	Status     OrderStatus     `json:"status" db:"status"`
	TotalPrice decimal.Decimal `json:"totalPrice" db:"total_price"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Price is the unit price at
// the time of purchase, not the current catalogue price.
type OrderItem struct {
	ID       uuid.UUID       `json:"-" db:"id"`
	OrderID  uuid.UUID       `json:"-" db:"order_id"`
	BookID   int64           `json:"bookId" db:"book_id"`
	Quantity int             `json:"quantity" db:"quantity"`
	Price    decimal.Decimal `json:"price" db:"price"`
}

// OrderDetail is an order together with its items.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}
