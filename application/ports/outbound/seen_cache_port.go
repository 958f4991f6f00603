package outbound

import "context"

// SeenCachePort is the dedup set the fetchers consult so an attachment or
// linked document is narrated at most once.
type SeenCachePort interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkSeen(ctx context.Context, key string) error
}
