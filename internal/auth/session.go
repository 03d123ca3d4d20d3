// Package auth keeps one browser's signed-in state: the bearer token and
// the decoded user, persisted in that browser's storage.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"medadmin/m/domain"
	"medadmin/m/internal/storage"
)

const (
	TokenKey = "auth_token"
	UserKey  = "user"
)

// Session is bound to exactly one browser's storage. Load must run before
// the first read; Begin and Clear are the only writers.
type Session struct {
	store  storage.Storage
	tokens storage.Storage
	log    *slog.Logger

	mu   sync.Mutex
	user *domain.User
}

// NewSession stores the user record in store and the token in tokens,
// which is usually a sealed view over the same store.
func NewSession(store, tokens storage.Storage, log *slog.Logger) *Session {
	if tokens == nil {
		tokens = store
	}
	if log == nil {
		log = slog.Default()
	}
	return &Session{store: store, tokens: tokens, log: log}
}

// Load restores a persisted session. A token without a user, or a user
// record that does not decode, leaves the browser signed out; the corrupt
// case also wipes both keys.
func (s *Session) Load(ctx context.Context) error {
	token, hasToken, err := s.tokens.GetItem(ctx, TokenKey)
	if errors.Is(err, storage.ErrCorrupt) {
		s.log.Warn("discarding unreadable token")
		return s.Clear(ctx)
	}
	if err != nil {
		return err
	}
	raw, hasUser, err := s.store.GetItem(ctx, UserKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if !hasToken || token == "" || !hasUser {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.log.Warn("discarding unreadable user record", "err", err)
		return s.Clear(ctx)
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return nil
}

// Token reads the persisted token on every call so requests always see
// the latest value.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.tokens.GetItem(ctx, TokenKey)
	if errors.Is(err, storage.ErrCorrupt) {
		return "", nil
	}
	return token, err
}

// Expire is called by the API client on a 401.
func (s *Session) Expire(ctx context.Context) error {
	return s.Clear(ctx)
}

func (s *Session) User() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// Begin persists a freshly issued token and the user decoded from it.
func (s *Session) Begin(ctx context.Context, token, displayName string, actor domain.EntityType) (domain.User, error) {
	u, err := DecodeToken(token)
	if err != nil {
		return domain.User{}, err
	}
	if displayName != "" {
		u.DisplayName = displayName
	} else {
		u.DisplayName = u.LoginName
	}
	if u.Type == "" {
		u.Type = actor
	}
	if u.Roles == nil {
		u.Roles = []string{}
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return domain.User{}, fmt.Errorf("encode user: %w", err)
	}
	if err := s.tokens.SetItem(ctx, TokenKey, token); err != nil {
		return domain.User{}, err
	}
	if err := s.store.SetItem(ctx, UserKey, string(raw)); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return u, nil
}

// Clear signs the browser out.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if err := s.tokens.RemoveItem(ctx, TokenKey); err != nil {
		return err
	}
	return s.store.RemoveItem(ctx, UserKey)
}
