package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"bookstore/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository on the carts and cart_items tables.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// AddItem upserts the (cart, book) line in a single transaction, creating the
// cart on first use. Concurrent adds of the same book both land. An add that
// would take the line past model.MaxLineQuantity leaves it unchanged.
func (r *cartRepository) AddItem(ctx context.Context, userID string, bookID int64, quantity int) (*model.CartItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cartID, err := r.ensureCart(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO cart_items (cart_id, book_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		WHERE cart_items.quantity + EXCLUDED.quantity <= $4
		RETURNING id, cart_id, book_id, quantity
	`

	var item model.CartItem
	err = tx.QueryRow(ctx, query, cartID, bookID, quantity, model.MaxLineQuantity).
		Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity)
	if err != nil {
		// The conflict guard suppresses the update, so no row comes back.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrQuantityLimit
		}
		if isForeignKeyViolation(err) {
			r.logger.Debug().Int64("book_id", bookID).Msg("book vanished while adding to cart")
			return nil, model.ErrBookNotFound
		}
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("book_id", bookID).
			Msg("failed to upsert cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to commit cart item")
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	return &item, nil
}

// ensureCart returns the id of the user's cart, creating it if needed.
func (r *cartRepository) ensureCart(ctx context.Context, tx pgx.Tx, userID string) (int64, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`

	var cartID int64
	if err := tx.QueryRow(ctx, query, userID).Scan(&cartID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to get or create cart")
		return 0, fmt.Errorf("failed to get or create cart: %w", err)
	}
	return cartID, nil
}

// SetQuantity sets the quantity of an item in the user's cart.
func (r *cartRepository) SetQuantity(ctx context.Context, userID string, itemID int64, quantity int) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	query := `
		UPDATE cart_items ci
		SET quantity = $3
		FROM carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("item_id", itemID).
			Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// RemoveItem deletes an item from the user's cart.
func (r *cartRepository) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1 AND ci.id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID).
			Int64("item_id", itemID).
			Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}

	return nil
}

// Items returns the lines in the user's cart in insertion order.
func (r *cartRepository) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	query := `
		SELECT ci.id, ci.cart_id, ci.book_id, ci.quantity
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1
		ORDER BY ci.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}

	items, err := collectCartItems(rows)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to read cart item rows")
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return items, nil
}

// Drain deletes and returns the user's cart lines inside tx. A second
// transaction draining the same cart blocks on the row locks and then sees
// nothing, so only one checkout can consume a cart.
func (r *cartRepository) Drain(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartItem, RestoreFunc, error) {
	query := `
		DELETE FROM cart_items ci
		USING carts c
		WHERE ci.cart_id = c.id AND c.user_id = $1
		RETURNING ci.id, ci.cart_id, ci.book_id, ci.quantity
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to drain cart")
		return nil, nil, fmt.Errorf("failed to drain cart: %w", err)
	}

	items, err := collectCartItems(rows)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to read drained cart items")
		return nil, nil, fmt.Errorf("failed to drain cart: %w", err)
	}

	slices.SortFunc(items, func(a, b model.CartItem) int { return cmp.Compare(a.ID, b.ID) })

	// Rolling back tx restores the rows.
	restore := func(context.Context) error { return nil }

	return items, restore, nil
}

func collectCartItems(rows pgx.Rows) ([]model.CartItem, error) {
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.BookID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
