package store_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/tjjh89017/readflag/internal/store"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

func Test_MemoryStore(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "alice_hasRead"); !errors.Is(err, pluginapi.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	for _, value := range []string{"true", "false"} {
		if err := s.Set(ctx, "alice_hasRead", value); err != nil {
			t.Fatal(err)
		}
	}

	gotValue, err := s.Get(ctx, "alice_hasRead")
	if err != nil {
		t.Fatal(err)
	}

	if gotValue != "false" {
		t.Fatalf("expected value false, got %s", gotValue)
	}
}

func Test_MemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("user%d_hasRead", i%4)
			_ = s.Set(ctx, key, "true")
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		if _, err := s.Get(ctx, fmt.Sprintf("user%d_hasRead", i)); err != nil {
			t.Fatalf("expected key user%d_hasRead to exist: %v", i, err)
		}
	}
}
