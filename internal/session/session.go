// Package session owns the authentication token and user profile and keeps
// them in step with the device store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/auth"
	"storefront/internal/broadcast"
	"storefront/internal/kvstore"
	"storefront/internal/models"
	"storefront/internal/telemetry"

	"go.uber.org/zap"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is the committed session state handed to subscribers.
type Snapshot struct {
	AccessToken string          `json:"accessToken,omitempty"`
	Profile     *models.Profile `json:"profile"`
	Loading     bool            `json:"loading"`
}

func (s Snapshot) Authenticated() bool {
	return s.AccessToken != ""
}

type Store struct {
	kv     kvstore.Store
	issuer auth.Issuer
	logger *zap.Logger

	pubMu   sync.Mutex
	mu      sync.Mutex
	started bool
	token   string
	profile *models.Profile
	loading bool

	changes broadcast.Topic[Snapshot]
}

type Option func(*Store)

func WithIssuer(issuer auth.Issuer) Option {
	return func(s *Store) { s.issuer = issuer }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New returns a store in the loading state; call Load once to populate it.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		issuer:  auth.PlaceholderIssuer{},
		logger:  zap.NewNop(),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted token and profile. Only the first call does any
// work. Both keys are read before anything is applied, so a read failure on
// either leaves the session anonymous. A profile that fails to decode is
// treated as absent. Loading is cleared regardless of outcome.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	token, _, err := s.kv.Get(ctx, kvstore.KeyToken)
	if err != nil {
		s.logger.Error("Failed to load auth/profile data", zap.String("key", kvstore.KeyToken), zap.Error(err))
		s.commit(func() { s.loading = false })
		return
	}

	raw, _, err := s.kv.Get(ctx, kvstore.KeyUserInfo)
	if err != nil {
		s.logger.Error("Failed to load auth/profile data", zap.String("key", kvstore.KeyUserInfo), zap.Error(err))
		s.commit(func() { s.loading = false })
		return
	}

	var profile *models.Profile
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			s.logger.Error("Failed to decode stored profile", zap.Error(err))
			profile = nil
		}
	}

	s.commit(func() {
		if token != "" {
			s.token = token
		}
		if profile != nil {
			s.profile = profile
		}
		s.loading = false
	})
}

// Login stores a session token when both credentials are non-empty. Empty
// credentials are ignored without error.
func (s *Store) Login(ctx context.Context, username, password string) error {
	return s.authenticate(ctx, username, password)
}

// Signup follows the same token policy as Login.
func (s *Store) Signup(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, email, password)
}

func (s *Store) authenticate(ctx context.Context, subject, password string) error {
	if subject == "" || password == "" {
		return nil
	}

	token, err := s.issuer.Issue(subject)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	if err := s.kv.Set(ctx, kvstore.KeyToken, token); err != nil {
		s.logger.Error("Failed to persist token", zap.Error(err))
		telemetry.PersistFailure("session", kvstore.KeyToken)
		return fmt.Errorf("persist token: %w", err)
	}

	s.commit(func() { s.token = token })
	return nil
}

// Logout clears the session in memory and removes both persisted records.
// Memory is cleared even when removal fails.
func (s *Store) Logout(ctx context.Context) error {
	var errs []error
	for _, key := range []string{kvstore.KeyToken, kvstore.KeyUserInfo} {
		if err := s.kv.Remove(ctx, key); err != nil {
			s.logger.Error("Failed to remove session record", zap.String("key", key), zap.Error(err))
			telemetry.PersistFailure("session", key)
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}

	s.commit(func() {
		s.token = ""
		s.profile = nil
	})
	return errors.Join(errs...)
}

// SaveProfile replaces the profile in memory, then writes it through. A write
// failure is reported but the in-memory profile is kept.
func (s *Store) SaveProfile(ctx context.Context, profile models.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	s.commit(func() { s.profile = &profile })

	if err := s.kv.Set(ctx, kvstore.KeyUserInfo, string(data)); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		telemetry.PersistFailure("session", kvstore.KeyUserInfo)
		return fmt.Errorf("persist profile: %w", err)
	}
	return nil
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Token returns the current access token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case !s.started:
		return StateUninitialized
	case s.loading:
		return StateLoading
	case s.token != "":
		return StateAuthenticated
	default:
		return StateAnonymous
	}
}

// Subscribe registers fn for every committed change.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	return s.changes.Subscribe(fn)
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{AccessToken: s.token, Loading: s.loading}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

// commit applies mutate under the state lock and publishes the result after
// releasing it. pubMu keeps notifications in commit order, so subscribers
// must not mutate the store from inside their callback.
func (s *Store) commit(mutate func()) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changes.Publish(snap)
}
