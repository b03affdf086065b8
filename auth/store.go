package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/99designs/keyring"

	"github.com/kbukum/reqkit/codec"
	"github.com/kbukum/reqkit/redis"
)

// TokenStore persists a single Token. Load returns ErrTokenNotFound when
// nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, tok *Token) error
	Delete(ctx context.Context) error
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.RWMutex
	tok *Token
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements TokenStore.
func (s *MemoryStore) Load(_ context.Context) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tok == nil {
		return nil, ErrTokenNotFound
	}
	return s.tok.clone(), nil
}

// Save implements TokenStore.
func (s *MemoryStore) Save(_ context.Context, tok *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = tok.clone()
	return nil
}

// Delete implements TokenStore.
func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = nil
	return nil
}

// KeyringStore keeps the token in an OS keychain or encrypted file.
type KeyringStore struct {
	ring keyring.Keyring
	key  string
}

// NewKeyringStore stores the token under key in ring.
func NewKeyringStore(ring keyring.Keyring, key string) *KeyringStore {
	return &KeyringStore{ring: ring, key: tokenKey(key)}
}

// Load implements TokenStore.
func (s *KeyringStore) Load(_ context.Context) (*Token, error) {
	item, err := s.ring.Get(s.key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: keyring get %q: %w", s.key, err)
	}
	var tok Token
	if err := codec.JSON().Decode(item.Data, &tok); err != nil {
		return nil, fmt.Errorf("auth: keyring decode %q: %w", s.key, err)
	}
	return &tok, nil
}

// Save implements TokenStore.
func (s *KeyringStore) Save(_ context.Context, tok *Token) error {
	data, err := codec.JSON().Encode(tok)
	if err != nil {
		return fmt.Errorf("auth: keyring encode: %w", err)
	}
	if err := s.ring.Set(keyring.Item{
		Key:         s.key,
		Data:        data,
		Label:       "reqkit token",
		Description: "reqkit access and refresh token",
	}); err != nil {
		return fmt.Errorf("auth: keyring set %q: %w", s.key, err)
	}
	return nil
}

// Delete implements TokenStore.
func (s *KeyringStore) Delete(_ context.Context) error {
	err := s.ring.Remove(s.key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("auth: keyring remove %q: %w", s.key, err)
	}
	return nil
}

// RedisStore shares the token between processes through Redis.
type RedisStore struct {
	store *redis.TypedStore[Token]
	key   string
}

// NewRedisStore stores the token at "<prefix>:token:<key>".
func NewRedisStore(client *redis.Client, prefix, key string) *RedisStore {
	return &RedisStore{store: redis.NewTypedStore[Token](client, prefix), key: tokenKey(key)}
}

// Load implements TokenStore.
func (s *RedisStore) Load(ctx context.Context) (*Token, error) {
	tok, err := s.store.Load(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	if tok == nil {
		return nil, ErrTokenNotFound
	}
	return tok, nil
}

// Save implements TokenStore. Tokens are kept without TTL since the refresh
// token usually outlives the access token.
func (s *RedisStore) Save(ctx context.Context, tok *Token) error {
	if err := s.store.Save(ctx, s.key, tok, 0); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

// Delete implements TokenStore.
func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func tokenKey(key string) string {
	if key == "" {
		key = "default"
	}
	return "token:" + key
}
