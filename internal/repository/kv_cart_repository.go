package repository

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"bookstore/internal/kvstore"
	"bookstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// kvCart is the stored form of a cart. In a key-value cart the item id is
// the book id, since each book appears at most once.
type kvCart struct {
	Items []kvCartItem `json:"items"`
}

type kvCartItem struct {
	BookID   int64 `json:"book_id"`
	Quantity int   `json:"quantity"`
}

// kvCartRepository implements CartRepository on a kvstore.Store keyed by user id.
type kvCartRepository struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// NewKVCartRepository creates a cart repository backed by a key-value store.
func NewKVCartRepository(store kvstore.Store, logger zerolog.Logger) CartRepository {
	return &kvCartRepository{
		store:  store,
		logger: logger.With().Str("repository", "kv-cart").Logger(),
	}
}

// AddItem increments the quantity of bookID in the user's cart.
func (r *kvCartRepository) AddItem(ctx context.Context, userID string, bookID int64, quantity int) (*model.CartItem, error) {
	var added model.CartItem

	err := r.store.Update(ctx, userID, func(current []byte) ([]byte, error) {
		cart, err := decodeKVCart(current)
		if err != nil {
			return nil, err
		}

		idx := cart.find(bookID)
		if idx < 0 {
			cart.Items = append(cart.Items, kvCartItem{BookID: bookID})
			idx = len(cart.Items) - 1
		}
		if cart.Items[idx].Quantity+quantity > model.MaxLineQuantity {
			return nil, model.ErrQuantityLimit
		}
		cart.Items[idx].Quantity += quantity
		added = model.CartItem{ID: bookID, BookID: bookID, Quantity: cart.Items[idx].Quantity}

		return json.Marshal(cart)
	})
	if errors.Is(err, model.ErrQuantityLimit) {
		return nil, err
	}
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("book_id", bookID).
			Msg("failed to add cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return &added, nil
}

// SetQuantity sets the quantity of an item in the user's cart.
func (r *kvCartRepository) SetQuantity(ctx context.Context, userID string, itemID int64, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	return r.modifyItem(ctx, userID, itemID, func(cart *kvCart, idx int) {
		cart.Items[idx].Quantity = quantity
	})
}

// RemoveItem deletes an item from the user's cart.
func (r *kvCartRepository) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	return r.modifyItem(ctx, userID, itemID, func(cart *kvCart, idx int) {
		cart.Items = slices.Delete(cart.Items, idx, idx+1)
	})
}

func (r *kvCartRepository) modifyItem(ctx context.Context, userID string, itemID int64, apply func(cart *kvCart, idx int)) error {
	err := r.store.Update(ctx, userID, func(current []byte) ([]byte, error) {
		cart, err := decodeKVCart(current)
		if err != nil {
			return nil, err
		}

		idx := cart.find(itemID)
		if idx < 0 {
			return nil, model.ErrCartItemNotFound
		}
		apply(&cart, idx)

		return json.Marshal(cart)
	})
	if err != nil {
		if errors.Is(err, model.ErrCartItemNotFound) {
			return model.ErrCartItemNotFound
		}
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("item_id", itemID).
			Msg("failed to modify cart item")
		return fmt.Errorf("failed to modify cart item: %w", err)
	}

	return nil
}

// Items returns the lines in the user's cart.
func (r *kvCartRepository) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	data, err := r.store.Get(ctx, userID)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	cart, err := decodeKVCart(data)
	if err != nil {
		return nil, err
	}

	return cart.toItems(), nil
}

// Drain takes the whole cart in one atomic operation. tx is not used. The
// returned RestoreFunc merges the taken lines back into whatever the user
// has added since.
func (r *kvCartRepository) Drain(ctx context.Context, _ pgx.Tx, userID string) ([]model.CartItem, RestoreFunc, error) {
	data, err := r.store.Take(ctx, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to drain cart")
		return nil, nil, fmt.Errorf("failed to drain cart: %w", err)
	}

	taken, err := decodeKVCart(data)
	if err != nil {
		return nil, nil, err
	}

	restore := func(ctx context.Context) error {
		if len(taken.Items) == 0 {
			return nil
		}
		return r.store.Update(ctx, userID, func(current []byte) ([]byte, error) {
			cart, err := decodeKVCart(current)
			if err != nil {
				return nil, err
			}
			for _, item := range taken.Items {
				if idx := cart.find(item.BookID); idx >= 0 {
					cart.Items[idx].Quantity += item.Quantity
				} else {
					cart.Items = append(cart.Items, item)
				}
			}
			return json.Marshal(cart)
		})
	}

	return taken.toItems(), restore, nil
}

func decodeKVCart(data []byte) (kvCart, error) {
	var cart kvCart
	if len(data) == 0 {
		return cart, nil
	}
	if err := json.Unmarshal(data, &cart); err != nil {
		return cart, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

func (c kvCart) find(bookID int64) int {
	return slices.IndexFunc(c.Items, func(item kvCartItem) bool { return item.BookID == bookID })
}

func (c kvCart) toItems() []model.CartItem {
	items := make([]model.CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, model.CartItem{ID: item.BookID, BookID: item.BookID, Quantity: item.Quantity})
	}
	slices.SortFunc(items, func(a, b model.CartItem) int { return cmp.Compare(a.ID, b.ID) })
	return items
}
