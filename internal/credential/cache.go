package credential

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL applies when a supplier does not declare a token lifetime.
const DefaultTTL = 3600 * time.Second

// Credential is an opaque supplier token with its expiry.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

func (c Credential) Valid(now time.Time) bool {
	return c.Token != "" && now.Before(c.ExpiresAt)
}

// AuthenticateFunc performs one authentication call against a supplier. A ttl
// of zero means the supplier declared no token lifetime.
type AuthenticateFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// Cache holds the current credential for one supplier and refreshes it on
// demand. Refresh is a critical section: concurrent callers that observe an
// expired credential wait for a single authenticate call and share its
// outcome. A cache is never shared between suppliers.
type Cache struct {
	authenticate AuthenticateFunc
	now          func() time.Time

	mu   sync.Mutex
	cred Credential
}

func NewCache(authenticate AuthenticateFunc) *Cache {
	return &Cache{
		authenticate: authenticate,
		now:          time.Now,
	}
}

// Token returns the cached token, refreshing it first if it is absent or
// expired. An authenticate failure is returned as-is and leaves the cache
// empty, so the next caller retries the refresh.
func (c *Cache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cred.Valid(c.now()) {
		return c.cred.Token, nil
	}

	token, ttl, err := c.authenticate(ctx)
	if err != nil {
		c.cred = Credential{}
		return "", err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.cred = Credential{Token: token, ExpiresAt: c.now().Add(ttl)}
	return c.cred.Token, nil
}

// Invalidate discards the cached credential so the next Token call refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.cred = Credential{}
	c.mu.Unlock()
}
