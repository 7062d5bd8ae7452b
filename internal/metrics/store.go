package metrics

import (
	"context"
	"errors"
	"time"

	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

var _ pluginapi.Store = &InstrumentedStore{}

// InstrumentedStore records the latency of every call on the wrapped store.
type InstrumentedStore struct {
	next    pluginapi.Store
	metrics *Metrics
}

func NewInstrumentedStore(next pluginapi.Store, metrics *Metrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.observe(pluginapi.OpGet, start, err)
	return value, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe(pluginapi.OpSet, start, err)
	return err
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, pluginapi.ErrKeyNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}

	s.metrics.StoreDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
}
