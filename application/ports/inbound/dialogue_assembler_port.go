package inbound

import (
	"context"

	"github.com/ekaud/my-audio-summaries/domain"
)

type DialogueAssemblerPort interface {
	Assemble(ctx context.Context, script *domain.DialogueScript) (*domain.AudioSummary, error)
}
