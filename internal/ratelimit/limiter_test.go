package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewSupplierLimiterWithDefaults()

	for i := 0; i < DefaultConfig().BurstSize; i++ {
		require.NoError(t, limiter.Wait(context.Background(), "bdfare"))
	}
}

func TestSupplierLimiter_OverrideApplies(t *testing.T) {
	limiter := NewSupplierLimiterWithDefaults()
	limiter.SetSupplierLimit("bdfare", 1, 0)

	err := limiter.Wait(context.Background(), "bdfare")
	assert.Error(t, err, "a zero-burst bucket can never hand out a token")
}

func TestSupplierLimiter_SuppliersHaveIndependentBuckets(t *testing.T) {
	limiter := NewSupplierLimiter(Config{RequestsPerSecond: 0.1, BurstSize: 1})

	require.NoError(t, limiter.Wait(context.Background(), "bdfare"), "drain bdfare's single token")

	// flyhub's bucket is untouched by bdfare's consumption.
	require.NoError(t, limiter.Wait(context.Background(), "flyhub"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "bdfare"))
}

func TestSupplierLimiter_WaitHonorsContextDeadline(t *testing.T) {
	limiter := NewSupplierLimiter(Config{RequestsPerSecond: 0.1, BurstSize: 1})
	require.NoError(t, limiter.Wait(context.Background(), "flyhub"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := limiter.Wait(ctx, "flyhub")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second, "wait must give up at the deadline, not block for the next token")
}
