package outbound

import (
	"context"
	"time"

	"github.com/ekaud/my-audio-summaries/domain"
)

// DocumentSourcePort streams documents newer than since. Per-document
// failures inside the source are logged and skipped, not surfaced on the
// error channel.
type DocumentSourcePort interface {
	Fetch(ctx context.Context, since time.Time) (<-chan domain.Document, <-chan error)
}
