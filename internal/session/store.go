// Package session holds the process-wide credentials: at most one admin and
// one user credential, persisted under stable keys so they survive restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/storage"
)

const (
	keyAdminToken = "adminToken"
	keyUserToken  = "userToken"
	keyUser       = "user"
)

type Scope string

const (
	ScopeAdmin Scope = "admin"
	ScopeUser  Scope = "user"
	ScopeAll   Scope = "all"
)

type Store struct {
	mu    sync.RWMutex
	kv    storage.Store
	admin *domain.Credential
	user  *domain.Credential
}

// NewStore returns an empty store backed by kv. A nil kv keeps credentials
// in memory only.
func NewStore(kv storage.Store) *Store {
	if kv == nil {
		kv = storage.NewMemoryStore()
	}
	return &Store{kv: kv}
}

// Load replaces the held credentials with the persisted ones.
func (s *Store) Load(ctx context.Context) error {
	adminToken, err := s.readString(ctx, keyAdminToken)
	if err != nil {
		return err
	}
	userToken, err := s.readString(ctx, keyUserToken)
	if err != nil {
		return err
	}
	var profile *domain.UserProfile
	if raw, err := s.kv.Get(ctx, keyUser); err == nil {
		profile = &domain.UserProfile{}
		if err := json.Unmarshal(raw, profile); err != nil {
			return fmt.Errorf("decode stored user: %w", err)
		}
	} else if !errors.Is(err, storage.ErrNoValue) {
		return fmt.Errorf("read stored user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin, s.user = nil, nil
	if adminToken != "" {
		s.admin = &domain.Credential{Role: domain.RoleAdmin, Token: adminToken}
	}
	if userToken != "" {
		s.user = &domain.Credential{Role: domain.RoleUser, Token: userToken, User: profile}
	}
	return nil
}

func (s *Store) SetAdmin(ctx context.Context, token string) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.SetMany(ctx, map[string][]byte{keyAdminToken: raw}); err != nil {
		return fmt.Errorf("persist admin credential: %w", err)
	}
	s.admin = &domain.Credential{Role: domain.RoleAdmin, Token: token}
	return nil
}

func (s *Store) SetUser(ctx context.Context, token string, user domain.UserProfile) error {
	rawToken, err := json.Marshal(token)
	if err != nil {
		return err
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.SetMany(ctx, map[string][]byte{keyUserToken: rawToken, keyUser: rawUser}); err != nil {
		return fmt.Errorf("persist user credential: %w", err)
	}
	s.user = &domain.Credential{Role: domain.RoleUser, Token: token, User: &user}
	return nil
}

func (s *Store) Logout(ctx context.Context, scope Scope) error {
	var keys []string
	switch scope {
	case ScopeAdmin:
		keys = []string{keyAdminToken}
	case ScopeUser:
		keys = []string{keyUserToken, keyUser}
	case ScopeAll, "":
		keys = []string{keyAdminToken, keyUserToken, keyUser}
	default:
		return domain.Invalid("unknown logout scope %q", scope)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	if scope != ScopeUser {
		s.admin = nil
	}
	if scope != ScopeAdmin {
		s.user = nil
	}
	return nil
}

func (s *Store) Admin() *domain.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCredential(s.admin)
}

func (s *Store) User() *domain.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyCredential(s.user)
}

// BearerToken returns the token to present, preferring the admin credential.
func (s *Store) BearerToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin != nil {
		return s.admin.Token
	}
	if s.user != nil {
		return s.user.Token
	}
	return ""
}

// CurrentUser is the profile of the held user credential, if any.
func (s *Store) CurrentUser() (domain.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.User == nil {
		return domain.UserProfile{}, false
	}
	return *s.user.User, true
}

func (s *Store) readString(ctx context.Context, key string) (string, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNoValue) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func copyCredential(c *domain.Credential) *domain.Credential {
	if c == nil {
		return nil
	}
	out := *c
	if c.User != nil {
		u := *c.User
		out.User = &u
	}
	return &out
}
