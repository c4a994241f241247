package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memoryvault/application/ports"
	"memoryvault/domain/entities"
	pkgerrors "memoryvault/pkg/errors"
)

const keySession = "session:current"

// SessionStore tracks at most one authenticated identity for the
// lifetime of the application session, backed by a single persisted
// record. There is no credential store: sign-in synthesizes a fresh
// identity for any well-formed input.
type SessionStore struct {
	kv     ports.KeyValueStore
	logger *zap.Logger

	mu      sync.RWMutex
	current *entities.User
}

// NewSessionStore restores the current identity from its persisted
// record. An absent or malformed record starts the session signed out.
func NewSessionStore(ctx context.Context, kv ports.KeyValueStore, logger *zap.Logger) (*SessionStore, error) {
	s := &SessionStore{
		kv:     kv,
		logger: logger,
	}

	raw, err := kv.Get(ctx, keySession)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get "+keySession, err)
	}

	var user entities.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logger.Warn("Persisted session record is corrupt, starting signed out", zap.Error(err))
		return s, nil
	}
	s.current = &user
	return s, nil
}

// SignIn synthesizes a session identity from the email, stores it as
// the current identity, and persists it. The password is accepted
// without verification and the display name is derived from the local
// part of the email.
func (s *SessionStore) SignIn(ctx context.Context, email, _ string, role entities.Role) (entities.User, error) {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return s.establish(ctx, name, email, role)
}

// Register synthesizes a session identity with the supplied name. Every
// call produces a brand-new identity; no check for an existing account
// with the same email is made.
func (s *SessionStore) Register(ctx context.Context, name, email, _ string, role entities.Role) (entities.User, error) {
	return s.establish(ctx, name, email, role)
}

func (s *SessionStore) establish(ctx context.Context, name, email string, role entities.Role) (entities.User, error) {
	if role == "" {
		role = entities.RoleCreator
	}
	user := entities.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		JoinDate:  time.Now().UTC(),
		Followers: []string{},
		Following: []string{},
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return entities.User{}, pkgerrors.NewInternalError("encode session", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Put(ctx, keySession, raw); err != nil {
		return entities.User{}, pkgerrors.NewDatabaseError("put "+keySession, err)
	}
	s.current = &user
	return user, nil
}

// SignOut clears the current identity and its persisted record. Signing
// out while already signed out is a no-op.
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keySession); err != nil && !errors.Is(err, ports.ErrKeyNotFound) {
		return pkgerrors.NewDatabaseError("delete "+keySession, err)
	}
	s.current = nil
	return nil
}

// Current returns the active identity, if any
func (s *SessionStore) Current() (entities.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return entities.User{}, false
	}
	return *s.current, true
}
