// Package preference holds the dark-mode flag.
package preference

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"storefront/internal/broadcast"
	"storefront/internal/kvstore"
	"storefront/internal/telemetry"

	"go.uber.org/zap"
)

type Snapshot struct {
	DarkMode bool `json:"darkMode"`
}

type Store struct {
	kv     kvstore.Store
	logger *zap.Logger

	pubMu    sync.Mutex
	mu       sync.Mutex
	started  bool
	darkMode bool

	changes broadcast.Topic[Snapshot]
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{kv: kv, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the saved mode once. Anything other than "true" leaves the
// default light mode.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	saved, ok, err := s.kv.Get(ctx, kvstore.KeyDarkMode)
	if err != nil {
		s.logger.Warn("Failed to load theme preference", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	s.commit(func() { s.darkMode = saved == "true" })
}

// Toggle flips the mode in memory and writes the new value through. The
// returned error reports a failed write; the flip is not undone.
func (s *Store) Toggle(ctx context.Context) (bool, error) {
	var mode bool
	s.commit(func() {
		s.darkMode = !s.darkMode
		mode = s.darkMode
	})

	if err := s.kv.Set(ctx, kvstore.KeyDarkMode, strconv.FormatBool(mode)); err != nil {
		s.logger.Error("Failed to persist theme preference", zap.Bool("dark_mode", mode), zap.Error(err))
		telemetry.PersistFailure("preference", kvstore.KeyDarkMode)
		return mode, fmt.Errorf("persist theme: %w", err)
	}
	return mode, nil
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{DarkMode: s.DarkMode()}
}

func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	return s.changes.Subscribe(fn)
}

func (s *Store) commit(mutate func()) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	mutate()
	snap := Snapshot{DarkMode: s.darkMode}
	s.mu.Unlock()

	s.changes.Publish(snap)
}

// Themed picks light or dark according to the current mode.
func Themed[T any](s *Store, light, dark T) T {
	if s.DarkMode() {
		return dark
	}
	return light
}
