package pluginapi

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the store holds nothing for the key.
var ErrKeyNotFound = errors.New("key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}
