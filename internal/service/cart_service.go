package service

import (
	"context"
	"errors"
	"fmt"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// cartService implements CartService.
type cartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
	logger   zerolog.Logger
}

// NewCartService creates a new cart service over any CartRepository.
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository, logger zerolog.Logger) CartService {
	return &cartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// Add puts quantity copies of a book in the user's cart.
func (s *cartService) Add(ctx context.Context, userID string, bookID int64, quantity int) (*model.CartItem, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity > model.MaxLineQuantity {
		return nil, model.ErrQuantityLimit
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		s.logger.Error().Err(err).Int64("book_id", bookID).Msg("failed to look up book")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	if book == nil {
		return nil, model.ErrBookNotFound
	}

	item, err := s.cartRepo.AddItem(ctx, userID, bookID, quantity)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) || errors.Is(err, model.ErrQuantityLimit) {
			return nil, err
		}
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("book_id", bookID).
			Msg("failed to add to cart")
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int64("book_id", bookID).
		Int("quantity", item.Quantity).
		Msg("book added to cart")

	return item, nil
}

// UpdateQuantity sets an item's quantity; zero or less removes it.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, userID, itemID)
	}
	if quantity > model.MaxLineQuantity {
		return model.ErrQuantityLimit
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, model.ErrCartItemNotFound) {
			return err
		}
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("item_id", itemID).
			Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return nil
}

// Remove deletes an item from the user's cart.
func (s *cartService) Remove(ctx context.Context, userID string, itemID int64) error {
	if err := s.cartRepo.RemoveItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, model.ErrCartItemNotFound) {
			return err
		}
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("item_id", itemID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	return nil
}

// View returns the priced contents of the user's cart at current prices.
// Lines whose book has since left the catalogue are omitted.
func (s *cartService) View(ctx context.Context, userID string) (*model.CartView, error) {
	items, err := s.cartRepo.Items(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &model.CartView{Items: []model.CartLine{}, Total: decimal.Zero}
	if len(items) == 0 {
		return view, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.BookID
	}

	books, err := s.bookRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart books")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	byID := make(map[int64]model.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	for _, item := range items {
		book, ok := byID[item.BookID]
		if !ok {
			s.logger.Debug().Int64("book_id", item.BookID).Msg("skipping cart line for missing book")
			continue
		}

		subtotal := book.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, model.CartLine{
			ItemID:   item.ID,
			Book:     book,
			Quantity: item.Quantity,
			Subtotal: subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}

	return view, nil
}
