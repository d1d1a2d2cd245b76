package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_ConcurrentCallersRefreshOnce(t *testing.T) {
	var calls int32
	c := NewCache(func(ctx context.Context) (string, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return fmt.Sprintf("token-%d", atomic.LoadInt32(&calls)), 0, nil
	})

	const workers = 8
	tokens := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = c.Token(context.Background())
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "authenticate must run exactly once")
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "token-1", tokens[i], "all callers must observe the same refreshed token")
	}
}

func TestCache_RefreshesExpiredToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var calls int
	c := NewCache(func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return fmt.Sprintf("token-%d", calls), 100 * time.Second, nil
	})
	c.now = func() time.Time { return now }

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)

	// Still valid: no refresh.
	now = now.Add(99 * time.Second)
	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, 1, calls)

	// Expired: exactly one refresh.
	now = now.Add(2 * time.Second)
	tok, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
	assert.Equal(t, 2, calls)
}

func TestCache_DefaultTTLWhenSupplierDeclaresNone(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var calls int
	c := NewCache(func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return "token", 0, nil
	})
	c.now = func() time.Time { return now }

	_, err := c.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(DefaultTTL - time.Second)
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	now = now.Add(2 * time.Second)
	_, err = c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCache_AuthenticateFailureIsNotCached(t *testing.T) {
	authErr := errors.New("bad credentials")
	var calls int
	c := NewCache(func(ctx context.Context) (string, time.Duration, error) {
		calls++
		if calls == 1 {
			return "", 0, authErr
		}
		return "token", 0, nil
	})

	_, err := c.Token(context.Background())
	assert.ErrorIs(t, err, authErr)

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token", tok)
	assert.Equal(t, 2, calls)
}

func TestCache_InvalidateForcesRefresh(t *testing.T) {
	var calls int
	c := NewCache(func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return fmt.Sprintf("token-%d", calls), time.Hour, nil
	})

	_, err := c.Token(context.Background())
	require.NoError(t, err)

	c.Invalidate()

	tok, err := c.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", tok)
}
