package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// SupplierLimiter holds one token bucket per supplier so a burst of combined
// searches cannot exhaust any single supplier's request quota.
type SupplierLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

func NewSupplierLimiter(config Config) *SupplierLimiter {
	return &SupplierLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewSupplierLimiterWithDefaults() *SupplierLimiter {
	return NewSupplierLimiter(DefaultConfig())
}

func (p *SupplierLimiter) limiterFor(supplier string) *rate.Limiter {
	p.mu.RLock()
	limiter, exists := p.limiters[supplier]
	p.mu.RUnlock()

	if exists {
		return limiter
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, exists = p.limiters[supplier]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.BurstSize)
	p.limiters[supplier] = limiter
	return limiter
}

// SetSupplierLimit overrides the default bucket for one supplier.
func (p *SupplierLimiter) SetSupplierLimit(supplier string, rps float64, burst int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.limiters[supplier] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the supplier's bucket allows one request or the context
// is done.
func (p *SupplierLimiter) Wait(ctx context.Context, supplier string) error {
	return p.limiterFor(supplier).Wait(ctx)
}
