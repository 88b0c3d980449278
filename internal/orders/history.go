// Package orders keeps the local order history and places new orders into it.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/kvstore"
	"storefront/internal/models"
	"storefront/internal/telemetry"

	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

// History is the JSON array stored under kvstore.KeyOrderHistory. Every
// change reads the whole array, modifies it and writes it back; mu
// serialises those cycles within one process.
type History struct {
	kv     kvstore.Store
	logger *zap.Logger

	mu sync.Mutex
}

type HistoryOption func(*History)

func WithHistoryLogger(logger *zap.Logger) HistoryOption {
	return func(h *History) { h.logger = logger }
}

func NewHistory(kv kvstore.Store, opts ...HistoryOption) *History {
	h := &History{
		kv:     kv,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// List returns the stored orders, oldest first. A missing record is an empty
// history; an undecodable one is logged and treated as empty.
func (h *History) List(ctx context.Context) ([]models.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read(ctx)
}

func (h *History) Get(ctx context.Context, index int) (models.Order, error) {
	list, err := h.List(ctx)
	if err != nil {
		return models.Order{}, err
	}
	if index < 0 || index >= len(list) {
		return models.Order{}, fmt.Errorf("%w: index %d", ErrOrderNotFound, index)
	}
	return list[index], nil
}

func (h *History) Append(ctx context.Context, order models.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.read(ctx)
	if err != nil {
		return err
	}
	return h.write(ctx, append(list, order))
}

// Remove deletes the order at index and returns the remaining history. An
// out-of-range index writes nothing.
func (h *History) Remove(ctx context.Context, index int) ([]models.Order, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, err := h.read(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("%w: index %d", ErrOrderNotFound, index)
	}

	updated := make([]models.Order, 0, len(list)-1)
	updated = append(updated, list[:index]...)
	updated = append(updated, list[index+1:]...)

	if err := h.write(ctx, updated); err != nil {
		return list, err
	}
	return updated, nil
}

func (h *History) read(ctx context.Context) ([]models.Order, error) {
	raw, ok, err := h.kv.Get(ctx, kvstore.KeyOrderHistory)
	if err != nil {
		h.logger.Error("Error loading order history", zap.Error(err))
		return nil, fmt.Errorf("load order history: %w", err)
	}

	list := make([]models.Order, 0)
	if !ok || raw == "" {
		return list, nil
	}

	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		h.logger.Error("Failed to decode order history", zap.Error(err))
		return make([]models.Order, 0), nil
	}
	return list, nil
}

func (h *History) write(ctx context.Context, list []models.Order) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode order history: %w", err)
	}

	if err := h.kv.Set(ctx, kvstore.KeyOrderHistory, string(data)); err != nil {
		h.logger.Error("Failed to save order history", zap.Error(err))
		telemetry.PersistFailure("orders", kvstore.KeyOrderHistory)
		return fmt.Errorf("persist order history: %w", err)
	}
	return nil
}
