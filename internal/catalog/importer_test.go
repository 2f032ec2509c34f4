package catalog

import (
	"context"
	"errors"
	"testing"

	"bookstore/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookCreator is a mock implementation of BookCreator.
type MockBookCreator struct {
	mock.Mock
}

func (m *MockBookCreator) Create(ctx context.Context, in model.BookInput) (*model.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func book(title string) model.BookInput {
	return model.BookInput{Title: title, Author: "A", Price: decimal.RequireFromString("1.00")}
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Feed, error) {
			switch path {
			case "a.gz":
				return &Feed{Source: path, Books: []model.BookInput{book("A1"), book("")}, Malformed: 1}, nil
			case "b.gz":
				return &Feed{Source: path, Books: []model.BookInput{book("B1")}}, nil
			}
			return nil, errors.New("unexpected path")
		},
	}

	creator := new(MockBookCreator)
	creator.On("Create", ctx, book("A1")).Return(&model.Book{ID: 1}, nil)
	creator.On("Create", ctx, book("")).Return(nil, model.NewDomainError(model.ErrCodeValidationFailed, "Title is a required field"))
	creator.On("Create", ctx, book("B1")).Return(&model.Book{ID: 2}, nil)

	importer := NewImporter(loader, creator, zerolog.Nop())

	summary, err := importer.Import(ctx, []string{"a.gz", "b.gz"})

	require.NoError(t, err)
	assert.Equal(t, &Summary{Files: 2, Imported: 2, Rejected: 1, Malformed: 1}, summary)
	creator.AssertExpectations(t)
}

func TestImporter_LoadFailureImportsNothing(t *testing.T) {
	ctx := context.Background()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Feed, error) {
			if path == "bad.gz" {
				return nil, errors.New("corrupt")
			}
			return &Feed{Source: path, Books: []model.BookInput{book("ok")}}, nil
		},
	}
	creator := new(MockBookCreator)

	importer := NewImporter(loader, creator, zerolog.Nop())

	summary, err := importer.Import(ctx, []string{"good.gz", "bad.gz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.gz")
	assert.Nil(t, summary)
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImporter_StoreFailureStops(t *testing.T) {
	ctx := context.Background()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) (*Feed, error) {
			return &Feed{Source: path, Books: []model.BookInput{book("one"), book("two")}}, nil
		},
	}
	creator := new(MockBookCreator)
	creator.On("Create", ctx, book("one")).Return(nil, errors.New("connection reset"))

	importer := NewImporter(loader, creator, zerolog.Nop())

	summary, err := importer.Import(ctx, []string{"feed.gz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 0, summary.Imported)
	creator.AssertNumberOfCalls(t, "Create", 1)
}
