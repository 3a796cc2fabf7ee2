// Package session holds the authenticated user and bearer token of the
// running client and mirrors both to client storage.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"presensi.client/internal/core/model"
	"presensi.client/internal/platform"
	"presensi.client/internal/ports/storage"
)

// State is a copy of the store contents handed to subscribers.
type State struct {
	Token string
	User  *model.User
}

// IsAuthenticated reports whether both token and user are present.
func (s State) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

// Store is the auth session store. It is safe for concurrent use; overlapping
// Login and Logout calls may interleave their storage writes, last write wins.
type Store struct {
	mu      sync.RWMutex
	token   string
	user    *model.User
	storage storage.Storage
	runtime platform.Runtime

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(State)
}

// NewStore builds a Store and hydrates it from st. Hydration is all or
// nothing: the stored pair is applied only when both entries are present
// and the user decodes.
func NewStore(ctx context.Context, st storage.Storage, rt platform.Runtime) *Store {
	s := &Store{
		storage:     st,
		runtime:     rt,
		subscribers: make(map[int]func(State)),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	if !s.persistent() {
		return
	}

	token, ok, err := s.storage.Get(ctx, storage.TokenKey)
	if err != nil || !ok || token == "" {
		if err != nil {
			log.Warn().Err(err).Msg("Could not read stored token")
		}
		return
	}
	raw, ok, err := s.storage.Get(ctx, storage.UserKey)
	if err != nil || !ok || raw == "" {
		if err != nil {
			log.Warn().Err(err).Msg("Could not read stored user")
		}
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Msg("Stored user is not valid JSON, starting signed out")
		return
	}

	s.token = token
	s.user = &user
}

func (s *Store) persistent() bool {
	return s.storage != nil && s.runtime != nil && s.runtime.Interactive()
}

// Token returns the in-memory token, empty when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, nil when signed out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Token: s.token}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Login sets token and user and persists both, token first.
func (s *Store) Login(ctx context.Context, token string, user model.User) error {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	defer s.notify()

	if !s.persistent() {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(ctx, storage.TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.storage.Set(ctx, storage.UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// Logout clears token and user in memory and in storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	defer s.notify()

	return s.clearPersisted(ctx)
}

// UpdateUser replaces the user record, leaving the token alone.
func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	defer s.notify()

	if !s.persistent() {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.storage.Set(ctx, storage.UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// PersistedToken returns the token as currently stored, which is what
// outgoing requests authenticate with. Any storage failure, or a headless
// runtime, yields an empty token.
func (s *Store) PersistedToken(ctx context.Context) string {
	if !s.persistent() {
		return ""
	}
	token, ok, err := s.storage.Get(ctx, storage.TokenKey)
	if err != nil || !ok {
		return ""
	}
	return token
}

// Expire is the teardown run when the API rejects the credentials. It
// removes both persisted entries and signs the store out.
func (s *Store) Expire(ctx context.Context) {
	if err := s.Logout(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to clear persisted session")
	}
}

func (s *Store) clearPersisted(ctx context.Context) error {
	if !s.persistent() {
		return nil
	}
	tokenErr := s.storage.Remove(ctx, storage.TokenKey)
	userErr := s.storage.Remove(ctx, storage.UserKey)
	if tokenErr != nil {
		return fmt.Errorf("failed to remove token: %w", tokenErr)
	}
	if userErr != nil {
		return fmt.Errorf("failed to remove user: %w", userErr)
	}
	return nil
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	st := s.State()

	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
