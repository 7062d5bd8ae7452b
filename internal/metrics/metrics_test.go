package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjjh89017/readflag/internal/metrics"
	"github.com/tjjh89017/readflag/internal/store"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

type failingStore struct{ err error }

func (s failingStore) Get(ctx context.Context, key string) (string, error) { return "", s.err }
func (s failingStore) Set(ctx context.Context, key, value string) error    { return s.err }

func TestInstrumentedStore_Results(t *testing.T) {
	m := metrics.New()
	s := metrics.NewInstrumentedStore(store.NewMemoryStore(), m)
	ctx := context.Background()

	_, err := s.Get(ctx, "bob_hasRead")
	assert.ErrorIs(t, err, pluginapi.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "alice_hasRead", "true"))

	value, err := s.Get(ctx, "alice_hasRead")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	assert.Equal(t, 3, testutil.CollectAndCount(m.StoreDuration))
}

func TestInstrumentedStore_PassesErrorsThrough(t *testing.T) {
	m := metrics.New()
	storeErr := errors.New("timeout")
	s := metrics.NewInstrumentedStore(failingStore{err: storeErr}, m)

	_, err := s.Get(context.Background(), "alice_hasRead")
	assert.ErrorIs(t, err, storeErr)
	assert.ErrorIs(t, s.Set(context.Background(), "alice_hasRead", "true"), storeErr)

	assert.Equal(t, 2, testutil.CollectAndCount(m.StoreDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.Requests.WithLabelValues("get-read", "200").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `readflag_requests_total{code="200",handler="get-read"} 1`))
}
