package secrets

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/ldflores83/falconcore/prometheus"
)

// Cache memoizes secret values for ttl. Concurrent misses for the same name
// share one provider call. Callers that see the upstream reject a value
// should Invalidate it so the next Get refetches.
type Cache struct {
	provider Provider
	entries  *expirable.LRU[string, string]
	group    singleflight.Group
	timeout  time.Duration
}

func NewCache(provider Provider, size int, ttl, timeout time.Duration) *Cache {
	if size <= 0 {
		size = 32
	}
	return &Cache{
		provider: provider,
		entries:  expirable.NewLRU[string, string](size, nil, ttl),
		timeout:  timeout,
	}
}

// Get returns the cached value or fetches it from the provider.
func (c *Cache) Get(ctx context.Context, name string) (string, error) {
	if v, ok := c.entries.Get(name); ok {
		prometheus.RecordSecretCache("hit")
		return v, nil
	}
	prometheus.RecordSecretCache("miss")

	ch := c.group.DoChan(name, func() (any, error) {
		// The shared fetch must not die with the first caller's context.
		fetchCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
			defer cancel()
		}

		v, err := c.provider.Get(fetchCtx, name)
		if err != nil {
			prometheus.RecordSecretCache("error")
			return "", err
		}
		c.entries.Add(name, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops a cached value.
func (c *Cache) Invalidate(name string) {
	if c.entries.Remove(name) {
		prometheus.RecordSecretCache("invalidate")
	}
}
