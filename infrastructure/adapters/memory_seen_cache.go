package adapters

import (
	"context"
	"sync"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
)

// memorySeenCache is the in-process fallback when no DynamoDB table is
// configured. Dedup then only holds within one invocation.
type memorySeenCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemorySeenCache() outbound.SeenCachePort {
	return &memorySeenCache{
		seen: make(map[string]struct{}),
	}
}

func (c *memorySeenCache) Seen(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[key]
	return ok, nil
}

func (c *memorySeenCache) MarkSeen(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[key] = struct{}{}
	return nil
}
