package inbound

import (
	"context"
	"time"

	"github.com/ekaud/my-audio-summaries/domain"
)

// DocumentBatchPort drains all configured sources and narrates every document
// with extractable text. A failure for one document never aborts its
// siblings; such failures arrive on the error channel while the batch keeps
// going.
type DocumentBatchPort interface {
	Run(ctx context.Context, since time.Time) (<-chan domain.NarrationArtifact, <-chan error)
}
