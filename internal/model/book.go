package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book represents a title in the catalogue.
type Book struct {
	ID            int64           `json:"id" db:"id"`
	Title         string          `json:"title" db:"title"`
	Author        string          `json:"author" db:"author"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Description   string          `json:"description" db:"description"`
	PublishedDate *time.Time      `json:"publishedDate,omitempty" db:"published_date"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// BookInput is the payload for creating or replacing a book.
type BookInput struct {
	Title         string          `json:"title" validate:"required,max=200"`
	Author        string          `json:"author" validate:"required,max=100"`
	Price         decimal.Decimal `json:"price" validate:"price"`
	Description   string          `json:"description" validate:"max=5000"`
	PublishedDate *time.Time      `json:"publishedDate,omitempty"`
}

// Apply copies the input fields onto b.
func (in BookInput) Apply(b *Book) {
	b.Title = in.Title
	b.Author = in.Author
	b.Price = in.Price
	b.Description = in.Description
	b.PublishedDate = in.PublishedDate
}
