package services

import (
	"context"
	"strings"

	"github.com/ekaud/my-audio-summaries/application/ports/inbound"
	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
)

type narrationPipeline struct {
	logger    outbound.LoggerPort
	generator outbound.DialogueGeneratorPort
	assembler inbound.DialogueAssemblerPort
	artifacts outbound.ArtifactStorePort
	mirror    outbound.ArtifactMirrorPort
}

// NewNarrationPipeline wires the per-document flow. mirror may be nil when no
// remote storage is configured.
func NewNarrationPipeline(logger outbound.LoggerPort, generator outbound.DialogueGeneratorPort,
	assembler inbound.DialogueAssemblerPort, artifacts outbound.ArtifactStorePort,
	mirror outbound.ArtifactMirrorPort) inbound.NarrationPipelinePort {
	return &narrationPipeline{
		logger:    logger,
		generator: generator,
		assembler: assembler,
		artifacts: artifacts,
		mirror:    mirror,
	}
}

func (p *narrationPipeline) Run(ctx context.Context, doc domain.Document) (*domain.NarrationArtifact, error) {
	// Checked before any outbound call so no quota is spent on documents
	// that cannot be narrated.
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return nil, &domain.PreconditionError{Title: doc.Title, Reason: "document has no extracted text"}
	}

	script, err := p.generator.Generate(ctx, doc.ExtractedText)
	if err != nil {
		p.logger.ErrorWithFields(err, "failed to generate dialogue", map[string]interface{}{
			"title": doc.Title,
		})
		return nil, err
	}

	summary, err := p.assembler.Assemble(ctx, script)
	if err != nil {
		p.logger.ErrorWithFields(err, "failed to assemble audio", map[string]interface{}{
			"title": doc.Title,
		})
		return nil, err
	}

	stored, err := p.artifacts.Write(summary.Audio, summary.Transcript, doc.Title)
	if err != nil {
		p.logger.ErrorWithFields(err, "failed to write artifacts", map[string]interface{}{
			"title": doc.Title,
		})
		return nil, err
	}

	artifact := &domain.NarrationArtifact{
		DocumentID:     doc.ID,
		Title:          doc.Title,
		AudioPath:      stored.AudioPath,
		TranscriptPath: stored.TranscriptPath,
		Lines:          len(script.Lines),
		Characters:     summary.Characters,
	}

	if p.mirror != nil {
		url, err := p.mirror.Mirror(ctx, outbound.MirrorParams{
			BaseName:   stored.BaseName,
			Audio:      summary.Audio,
			Transcript: summary.Transcript,
		})
		if err != nil {
			// The local artifact is already on disk; a failed mirror is not
			// worth failing the document over.
			p.logger.WarnWithFields("failed to mirror artifacts", map[string]interface{}{
				"title": doc.Title,
				"cause": err.Error(),
			})
		} else {
			artifact.MirrorURL = url
		}
	}

	p.logger.InfoWithFields("generated audio summary", map[string]interface{}{
		"title":      doc.Title,
		"characters": summary.Characters,
		"audio":      stored.AudioPath,
	})

	return artifact, nil
}
