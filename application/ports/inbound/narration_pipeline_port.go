package inbound

import (
	"context"

	"github.com/ekaud/my-audio-summaries/domain"
)

type NarrationPipelinePort interface {
	Run(ctx context.Context, doc domain.Document) (*domain.NarrationArtifact, error)
}
