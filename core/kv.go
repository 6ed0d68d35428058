package core

import "context"

// KVStore is a durable key-value byte store.
// Get returns ErrKeyNotFound when nothing is stored under key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
