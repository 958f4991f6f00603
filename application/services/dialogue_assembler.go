package services

import (
	"bytes"
	"context"
	"strings"
	"sync"

	"github.com/ekaud/my-audio-summaries/application/ports/inbound"
	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
)

type dialogueAssembler struct {
	logger      outbound.LoggerPort
	synthesizer outbound.SpeechSynthesizerPort
	workerPool  outbound.TaskDispatcher
}

func NewDialogueAssembler(logger outbound.LoggerPort, synthesizer outbound.SpeechSynthesizerPort,
	workerPool outbound.TaskDispatcher) inbound.DialogueAssemblerPort {
	return &dialogueAssembler{
		logger:      logger,
		synthesizer: synthesizer,
		workerPool:  workerPool,
	}
}

// Assemble synthesizes every line of the script concurrently and recombines
// the results strictly in original line order. One failed line fails the
// whole assembly; there is no partial artifact.
func (a *dialogueAssembler) Assemble(ctx context.Context, script *domain.DialogueScript) (*domain.AudioSummary, error) {
	if script == nil || len(script.Lines) == 0 {
		return nil, &domain.ValidationError{Reason: "dialogue script has no lines"}
	}

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		failOnce sync.Once
		firstErr error
	)
	fail := func(err error) {
		failOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	// Result slots are addressed by line index so the reassembly order is
	// independent of completion order.
	slots := make([]domain.SynthesisResult, len(script.Lines))

	for i, line := range script.Lines {
		i, line := i, line
		wg.Add(1)
		err := a.workerPool.Submit(func() {
			defer wg.Done()
			if newCtx.Err() != nil {
				return
			}
			audio, err := a.synthesizer.Synthesize(newCtx, outbound.SynthesizeRequest{
				Text:    line.Text,
				VoiceID: line.Speaker.VoiceID(),
			})
			if err != nil {
				fail(&domain.ServiceError{Service: "speech", LineIndex: i, Err: err})
				return
			}
			slots[i] = domain.SynthesisResult{LineIndex: i, Audio: audio}
		})
		if err != nil {
			wg.Done()
			fail(err)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var audio bytes.Buffer
	var transcript strings.Builder
	characters := 0
	for i, line := range script.Lines {
		audio.Write(slots[i].Audio)
		transcript.WriteString(line.TranscriptLine())
		transcript.WriteString("\n\n")
		characters += len(line.Text)
	}

	a.logger.InfoWithFields("dialogue audio assembled", map[string]interface{}{
		"lines":      len(script.Lines),
		"characters": characters,
	})

	return &domain.AudioSummary{
		Audio:      audio.Bytes(),
		Transcript: transcript.String(),
		Characters: characters,
	}, nil
}
