package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sports_dashboard/internal/domain"
)

// CartService keeps each viewer's shopping cart in the local store. Every
// mutation is a read-modify-write inside one transaction holding the row lock.
type CartService struct {
	local     LocalStore
	txManager TransactionManager
	logger    *slog.Logger
}

func NewCartService(local LocalStore, txManager TransactionManager, logger *slog.Logger) *CartService {
	return &CartService{
		local:     local,
		txManager: txManager,
		logger:    logger.With("component", "cart"),
	}
}

func (c *CartService) Items(ctx context.Context, userID string) ([]domain.CartItem, error) {
	payload, err := c.local.Get(ctx, domain.CartKey(userID))
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return c.decode(payload), nil
}

// Add appends item. Items need a name and a positive price.
func (c *CartService) Add(ctx context.Context, userID string, item domain.CartItem) ([]domain.CartItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, fmt.Errorf("cart item without name: %w", domain.ErrInvalid)
	}
	if item.Price <= 0 {
		return nil, fmt.Errorf("cart item price %v: %w", item.Price, domain.ErrInvalid)
	}

	return c.update(ctx, userID, func(items []domain.CartItem) ([]domain.CartItem, error) {
		return append(items, item), nil
	})
}

// Remove drops the item at index.
func (c *CartService) Remove(ctx context.Context, userID string, index int) ([]domain.CartItem, error) {
	return c.update(ctx, userID, func(items []domain.CartItem) ([]domain.CartItem, error) {
		if index < 0 || index >= len(items) {
			return nil, fmt.Errorf("cart index %d: %w", index, domain.ErrNotFound)
		}
		return append(items[:index], items[index+1:]...), nil
	})
}

func (c *CartService) Clear(ctx context.Context, userID string) error {
	_, err := c.update(ctx, userID, func([]domain.CartItem) ([]domain.CartItem, error) {
		return []domain.CartItem{}, nil
	})
	return err
}

func (c *CartService) update(ctx context.Context, userID string, fn func([]domain.CartItem) ([]domain.CartItem, error)) ([]domain.CartItem, error) {
	key := domain.CartKey(userID)

	var result []domain.CartItem
	err := c.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		payload, err := c.local.GetForUpdate(txCtx, key)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lock cart: %w", err)
		}

		items, err := fn(c.decode(payload))
		if err != nil {
			return err
		}

		body, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		if err := c.local.Put(txCtx, key, body); err != nil {
			return fmt.Errorf("put cart: %w", err)
		}

		result = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// decode treats a missing or malformed cart as empty.
func (c *CartService) decode(payload []byte) []domain.CartItem {
	if len(payload) == 0 {
		return []domain.CartItem{}
	}
	var items []domain.CartItem
	if err := json.Unmarshal(payload, &items); err != nil {
		c.logger.Warn("ignoring malformed cart", "error", fmt.Errorf("%w: %v", domain.ErrMalformed, err))
		return []domain.CartItem{}
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items
}
