// Package cache provides backends for caching provider API responses.
package cache

import (
	"context"
	"time"
)

// Cache is the interface all cache backends implement. Values are opaque
// byte slices; callers serialize (typically to JSON) before storing.
type Cache interface {
	// Get retrieves a value. A miss or an expired entry returns (nil, nil).
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value. A non-positive ttl uses the backend default;
	// backends may treat a zero default as "never expires".
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	// Clear removes all entries.
	Clear(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Null is a cache backend that stores nothing. Useful for tests and for
// disabling caching.
type Null struct{}

func (Null) Get(context.Context, string) ([]byte, error) { return nil, nil }

func (Null) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Null) Delete(context.Context, string) (bool, error) { return false, nil }

func (Null) Clear(context.Context) error { return nil }

func (Null) Close() error { return nil }
