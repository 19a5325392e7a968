package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no snapshot exists under the key
var ErrNotFound = errors.New("snapshot not found")

// Storage is a durable key -> document store for whole snapshots.
// Documents are overwritten wholesale on every Save.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Close() error
}
