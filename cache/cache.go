package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a typed cache over a RawCache.
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (V, bool, error)
	// Set stores value for ttl, a zero ttl never expires.
	Set(ctx context.Context, key K, value V, ttl time.Duration) error
	Close() error
}

// RawCache stores opaque byte values by string key.
type RawCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type genericCache[K comparable, V any] struct {
	raw     RawCache
	keyFunc func(K) string
}

// NewGenericCache creates a typed cache over raw, keys are formatted with %v when keyFunc is nil.
// Strings and byte slices are stored as is, other values as json.
func NewGenericCache[K comparable, V any](raw RawCache, keyFunc func(K) string) Cache[K, V] {
	if keyFunc == nil {
		keyFunc = func(k K) string {
			return fmt.Sprintf("%v", k)
		}
	}
	return &genericCache[K, V]{raw: raw, keyFunc: keyFunc}
}

func (g *genericCache[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var value V
	data, found, err := g.raw.Get(ctx, g.keyFunc(key))
	if err != nil || !found {
		return value, found, err
	}

	if err = decode(data, &value); err != nil {
		var zero V
		return zero, false, fmt.Errorf("decode cached value for %v: %w", key, err)
	}
	return value, true, nil
}

func (g *genericCache[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return fmt.Errorf("encode value for %v: %w", key, err)
	}
	return g.raw.Set(ctx, g.keyFunc(key), data, ttl)
}

func (g *genericCache[K, V]) Close() error {
	return g.raw.Close()
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(value)
	}
}

func decode(data []byte, holder any) error {
	switch v := holder.(type) {
	case *[]byte:
		*v = append((*v)[:0], data...)
		return nil
	case *string:
		*v = string(data)
		return nil
	default:
		return json.Unmarshal(data, holder)
	}
}
