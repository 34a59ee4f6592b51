// Package kv provides the single local key-value slot belajar persists into.
//
// Values are opaque byte slices. A missing key reads as nil with no error, so
// callers can treat "absent" and "empty" the same way.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned when the slot is used after Close.
var ErrClosed = errors.New("kv store closed")

// Slot is the storage contract used by the session store and preferences.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
