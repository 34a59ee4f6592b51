package kv

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucket = "belajar" // key: slot name -> raw value

// Bolt is a Slot backed by a single bbolt bucket.
type Bolt struct {
	storage *bbolt.DB
}

// OpenBolt opens (or creates) the bbolt file at path. The file lock is held
// until Close, so a second process fails after a short timeout instead of
// writing concurrently.
func OpenBolt(path string) (*Bolt, error) {
	instance, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	}); err != nil {
		_ = instance.Close()

		return nil, err
	}

	return &Bolt{storage: instance}, nil
}

// Get returns a copy of the value stored under key, or nil when absent.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	if b == nil || b.storage == nil {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []byte
	err := b.storage.View(func(tx *bbolt.Tx) error {
		value := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if value != nil {
			out = append([]byte{}, value...)
		}
		return nil
	})
	return out, err
}

// Put overwrites the value under key.
func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	if b == nil || b.storage == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), value)
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	if b == nil || b.storage == nil {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(key))
	})
}

// Path reports the file backing the store.
func (b *Bolt) Path() string {
	return b.storage.Path()
}

// Close releases the file lock.
func (b *Bolt) Close() error {
	if b == nil || b.storage == nil {
		return nil
	}
	err := b.storage.Close()
	b.storage = nil
	return err
}
