package services

import (
	"context"
	"errors"
	"time"

	"github.com/ekaud/my-audio-summaries/application/ports/inbound"
	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/channel_utils"
	"github.com/ekaud/my-audio-summaries/domain"
)

type documentBatch struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	sources    []outbound.DocumentSourcePort
	registry   *ProcessorRegistry
	pipeline   inbound.NarrationPipelinePort
}

func NewDocumentBatch(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher,
	sources []outbound.DocumentSourcePort, registry *ProcessorRegistry,
	pipeline inbound.NarrationPipelinePort) inbound.DocumentBatchPort {
	return &documentBatch{
		logger:     logger,
		workerPool: workerPool,
		sources:    sources,
		registry:   registry,
		pipeline:   pipeline,
	}
}

// Run drains every source and narrates each document in turn. Per-document
// failures are reported on the error channel but never cancel the batch;
// isolation between sibling documents is the whole point of this stage.
func (b *documentBatch) Run(ctx context.Context, since time.Time) (<-chan domain.NarrationArtifact, <-chan error) {
	out := make(chan domain.NarrationArtifact)
	errCh := make(chan error, len(b.sources)+1)

	docChans := make([]<-chan domain.Document, 0, len(b.sources))
	errChans := make([]<-chan error, 0, len(b.sources))
	for _, source := range b.sources {
		docs, errs := source.Fetch(ctx, since)
		docChans = append(docChans, docs)
		errChans = append(errChans, errs)
	}

	mergedDocs, err := channel_utils.MergeChannels(b.workerPool, docChans...)
	if err != nil {
		errCh <- err
		close(out)
		close(errCh)
		return out, errCh
	}
	mergedSourceErrs, err := channel_utils.MergeChannels(b.workerPool, errChans...)
	if err != nil {
		errCh <- err
		close(out)
		close(errCh)
		return out, errCh
	}

	err = b.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)

		for mergedDocs != nil || mergedSourceErrs != nil {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-mergedSourceErrs:
				if !ok {
					mergedSourceErrs = nil
					continue
				}
				errCh <- err
			case doc, ok := <-mergedDocs:
				if !ok {
					mergedDocs = nil
					continue
				}
				if artifact, ok := b.narrate(ctx, doc, errCh); ok {
					out <- *artifact
				}
			}
		}
	})
	if err != nil {
		errCh <- err
	}

	return out, errCh
}

func (b *documentBatch) narrate(ctx context.Context, doc domain.Document, errCh chan<- error) (*domain.NarrationArtifact, bool) {
	if doc.ExtractedText == "" {
		supported, err := b.registry.ExtractText(&doc)
		if !supported {
			return nil, false
		}
		if err != nil {
			b.logger.ErrorWithFields(err, "failed to extract text", map[string]interface{}{
				"title":     doc.Title,
				"mime_type": doc.MimeType,
			})
			errCh <- err
			return nil, false
		}
	}

	artifact, err := b.pipeline.Run(ctx, doc)
	if err != nil {
		var precondition *domain.PreconditionError
		if errors.As(err, &precondition) {
			b.logger.WarnWithFields("skipping document without narratable text", map[string]interface{}{
				"title": doc.Title,
			})
			return nil, false
		}
		errCh <- err
		return nil, false
	}

	return artifact, true
}
