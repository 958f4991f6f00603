package adapters

import (
	"context"
	"testing"
)

func TestMemorySeenCache(t *testing.T) {
	cache := NewMemorySeenCache()
	ctx := context.Background()

	seen, err := cache.Seen(ctx, "attachment/m1/a1")
	if err != nil {
		t.Fatal("Failed to query seen cache:", err)
	}
	if seen {
		t.Error("fresh key reported as seen")
	}

	if err := cache.MarkSeen(ctx, "attachment/m1/a1"); err != nil {
		t.Fatal("Failed to mark seen:", err)
	}

	seen, err = cache.Seen(ctx, "attachment/m1/a1")
	if err != nil {
		t.Fatal("Failed to query seen cache:", err)
	}
	if !seen {
		t.Error("marked key reported as unseen")
	}

	if seen, _ := cache.Seen(ctx, "drive/other"); seen {
		t.Error("unrelated key reported as seen")
	}
}
