package schema

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	s, err := New([]FieldSpec{{Name: "caseid", Start: 0, Length: 4}})
	require.NoError(t, err)
	return s
}

func TestCache_GetOrLoad(t *testing.T) {
	s := testSchema(t)
	var calls atomic.Int32
	load := func(ctx context.Context) (*Schema, error) {
		calls.Add(1)
		return s, nil
	}

	t.Run("Caches Within TTL", func(t *testing.T) {
		c := NewCache(time.Minute)
		for i := 0; i < 3; i++ {
			got, err := c.GetOrLoad(context.Background(), "resp.dct", load)
			require.NoError(t, err)
			assert.Same(t, s, got)
		}
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Reloads After Expiry", func(t *testing.T) {
		calls.Store(0)
		c := NewCache(time.Minute)
		now := time.Now()
		c.now = func() time.Time { return now }

		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		now = now.Add(2 * time.Minute)
		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("Zero TTL Disables Caching", func(t *testing.T) {
		calls.Store(0)
		c := NewCache(0)
		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("Invalidate", func(t *testing.T) {
		calls.Store(0)
		c := NewCache(time.Minute)
		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		c.Invalidate("resp.dct")
		_, _ = c.GetOrLoad(context.Background(), "resp.dct", load)
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := NewCache(time.Minute)
	boom := errors.New("boom")

	_, err := c.GetOrLoad(context.Background(), "bad.dct", func(ctx context.Context) (*Schema, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ConcurrentCallersShareOneLoad(t *testing.T) {
	c := NewCache(time.Minute)
	s := testSchema(t)
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(ctx context.Context) (*Schema, error) {
		calls.Add(1)
		<-release
		return s, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.GetOrLoad(context.Background(), "resp.dct", load)
			assert.NoError(t, err)
			assert.Same(t, s, got)
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(2))
}
