package service

import (
	"context"
	"fmt"
	"time"

	"bookstore/internal/model"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	bookRepo  repository.BookRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	bookRepo repository.BookRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		bookRepo:  bookRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout converts the user's cart into a pending order. The cart is
// drained, priced at current book prices and written as an order in one
// transaction. On any failure the transaction is rolled back and the cart
// lines are put back.
func (s *orderService) Checkout(ctx context.Context, userID string) (detail *model.OrderDetail, err error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	var restore repository.RestoreFunc

	// Ensure transaction is rolled back and the cart restored on error
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
		if restore != nil {
			if rsErr := restore(context.WithoutCancel(ctx)); rsErr != nil {
				s.logger.Error().Err(rsErr).Str("user_id", userID).Msg("failed to restore cart after checkout failure")
			}
		}
	}()

	var items []model.CartItem
	items, restore, err = s.cartRepo.Drain(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to drain cart")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if len(items) == 0 {
		s.logger.Debug().Str("user_id", userID).Msg("checkout of empty cart")
		return nil, model.ErrEmptyCart
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.BookID
	}

	books, err := s.bookRepo.LockByIDs(ctx, tx, ids)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load books for checkout")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	priceByID := make(map[int64]decimal.Decimal, len(books))
	for _, b := range books {
		priceByID[b.ID] = b.Price
	}

	now := time.Now().UTC()
	order := model.Order{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    model.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	total := decimal.Zero
	orderItems := make([]model.OrderItem, len(items))
	for i, item := range items {
		price, ok := priceByID[item.BookID]
		if !ok {
			s.logger.Warn().
				Str("user_id", userID).
				Int64("book_id", item.BookID).
				Msg("cart references a book that no longer exists")
			return nil, model.ErrBookNotFound
		}

		orderItems[i] = model.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    price,
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	order.TotalPrice = total

	if total.GreaterThan(model.MaxOrderTotal) {
		s.logger.Warn().
			Str("user_id", userID).
			Str("total", total.String()).
			Msg("order total too large")
		return nil, model.ErrOrderTooLarge
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID).
		Int("item_count", len(orderItems)).
		Str("total", total.StringFixed(2)).
		Msg("order placed")

	return &model.OrderDetail{Order: order, Items: orderItems}, nil
}

// Get retrieves one of the user's orders. An order owned by someone else is
// reported exactly like a missing one.
func (s *orderService) Get(ctx context.Context, userID string, id uuid.UUID) (*model.OrderDetail, error) {
	detail, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if detail.UserID != userID {
		s.logger.Debug().
			Str("order_id", id.String()).
			Str("user_id", userID).
			Msg("order belongs to another user")
		return nil, model.ErrOrderNotFound
	}

	return detail, nil
}

// List retrieves the user's orders newest first.
func (s *orderService) List(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// Complete marks a pending order as completed.
func (s *orderService) Complete(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	detail, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.orderRepo.UpdateStatus(ctx, id, model.OrderStatusPending, model.OrderStatusCompleted)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to complete order")
		return nil, fmt.Errorf("failed to complete order: %w", err)
	}
	if !ok {
		return nil, model.ErrInvalidTransition
	}

	detail.Status = model.OrderStatusCompleted
	detail.UpdatedAt = time.Now().UTC()

	s.logger.Info().Str("order_id", id.String()).Msg("order completed")

	return detail, nil
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}
