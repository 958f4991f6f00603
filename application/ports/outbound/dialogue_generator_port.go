package outbound

import (
	"context"

	"github.com/ekaud/my-audio-summaries/domain"
)

type DialogueGeneratorPort interface {
	Generate(ctx context.Context, text string) (*domain.DialogueScript, error)
}
