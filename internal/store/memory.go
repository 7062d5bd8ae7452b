package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

var _ pluginapi.Store = &MemoryStore{}

type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	zerolog.Ctx(ctx).Debug().Str("key", key).Msg("get value from memory")

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", pluginapi.ErrKeyNotFound
	}

	return value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value string) error {
	zerolog.Ctx(ctx).Debug().Str("key", key).Str("value", value).Msg("store value in memory")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}
