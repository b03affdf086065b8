package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kbukum/reqkit/codec"
)

// TypedStore stores JSON-encoded values of type C under a key prefix.
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
	codec     codec.Codec
}

// NewTypedStore creates a TypedStore. Keys are written as "<prefix>:<key>",
// or bare when prefix is empty.
func NewTypedStore[C any](client *Client, keyPrefix string) *TypedStore[C] {
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix, codec: codec.JSON()}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns the value at key, or (nil, nil) when it does not exist.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	raw, err := s.client.Get(ctx, s.fullKey(key))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: load %q: %w", key, err)
	}

	var val C
	if err := s.codec.Decode(raw, &val); err != nil {
		return nil, fmt.Errorf("redis: decode %q: %w", key, err)
	}
	return &val, nil
}

// Save stores val with ttl. A zero ttl means no expiration.
func (s *TypedStore[C]) Save(ctx context.Context, key string, val *C, ttl time.Duration) error {
	data, err := s.codec.Encode(val)
	if err != nil {
		return fmt.Errorf("redis: encode %q: %w", key, err)
	}
	if err := s.client.Set(ctx, s.fullKey(key), data, ttl); err != nil {
		return fmt.Errorf("redis: save %q: %w", key, err)
	}
	return nil
}

// Delete removes the key.
func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("redis: delete %q: %w", key, err)
	}
	return nil
}
