package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
	"github.com/ekaud/my-audio-summaries/infrastructure/adapters"
)

type stubGenerator struct {
	calls  int32
	script *domain.DialogueScript
	err    error
}

func (g *stubGenerator) Generate(context.Context, string) (*domain.DialogueScript, error) {
	atomic.AddInt32(&g.calls, 1)
	return g.script, g.err
}

type stubAssembler struct {
	summary *domain.AudioSummary
	err     error
}

func (a *stubAssembler) Assemble(context.Context, *domain.DialogueScript) (*domain.AudioSummary, error) {
	return a.summary, a.err
}

type stubArtifactStore struct {
	artifact domain.StoredArtifact
	err      error
}

func (s *stubArtifactStore) Write([]byte, string, string) (domain.StoredArtifact, error) {
	return s.artifact, s.err
}

func (s *stubArtifactStore) Cleanup(string, time.Duration) (int, error) {
	return 0, nil
}

type stubMirror struct {
	calls int32
	url   string
	err   error
}

func (m *stubMirror) Mirror(context.Context, outbound.MirrorParams) (string, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.url, m.err
}

func testScript() *domain.DialogueScript {
	return &domain.DialogueScript{
		Scratchpad: "plan",
		Lines: []domain.DialogueLine{
			{Text: "Hello", Speaker: domain.SpeakerFemale1},
			{Text: "Hi there", Speaker: domain.SpeakerMale1},
		},
	}
}

func TestNarrationPipeline_RejectsEmptyDocumentBeforeGeneration(t *testing.T) {
	generator := &stubGenerator{script: testScript()}
	pipeline := NewNarrationPipeline(adapters.NewZerologWrapper(), generator,
		&stubAssembler{}, &stubArtifactStore{}, nil)

	doc := domain.Document{ID: "d1", Title: "Empty Doc", ExtractedText: "  \n\t "}

	_, err := pipeline.Run(context.Background(), doc)

	var preconditionErr *domain.PreconditionError
	if !errors.As(err, &preconditionErr) {
		t.Fatalf("expected a PreconditionError, got %T: %v", err, err)
	}
	if preconditionErr.Title != "Empty Doc" {
		t.Errorf("precondition title = %q, want %q", preconditionErr.Title, "Empty Doc")
	}
	if calls := atomic.LoadInt32(&generator.calls); calls != 0 {
		t.Errorf("generator called %d times before the precondition check", calls)
	}
}

func TestNarrationPipeline_ProducesArtifact(t *testing.T) {
	generator := &stubGenerator{script: testScript()}
	assembler := &stubAssembler{summary: &domain.AudioSummary{
		Audio:      []byte("mp3-bytes"),
		Transcript: "female-1: Hello\n\n",
		Characters: 13,
	}}
	store := &stubArtifactStore{artifact: domain.StoredArtifact{
		BaseName:       "Weekly-Report_2026-08-31_10-00-00",
		AudioPath:      "output/audio/Weekly-Report_2026-08-31_10-00-00.mp3",
		TranscriptPath: "output/transcripts/Weekly-Report_2026-08-31_10-00-00.txt",
	}}
	mirror := &stubMirror{url: "https://bucket.s3.amazonaws.com/narrations/x.mp3"}

	pipeline := NewNarrationPipeline(adapters.NewZerologWrapper(), generator, assembler, store, mirror)

	artifact, err := pipeline.Run(context.Background(), domain.Document{
		ID:            "d1",
		Title:         "Weekly Report",
		ExtractedText: "some extracted text",
	})
	if err != nil {
		t.Fatal("Failed to run pipeline:", err)
	}

	if artifact.AudioPath != store.artifact.AudioPath {
		t.Errorf("audio path = %q, want %q", artifact.AudioPath, store.artifact.AudioPath)
	}
	if artifact.TranscriptPath != store.artifact.TranscriptPath {
		t.Errorf("transcript path = %q, want %q", artifact.TranscriptPath, store.artifact.TranscriptPath)
	}
	if artifact.Lines != 2 {
		t.Errorf("lines = %d, want 2", artifact.Lines)
	}
	if artifact.Characters != 13 {
		t.Errorf("characters = %d, want 13", artifact.Characters)
	}
	if artifact.MirrorURL != mirror.url {
		t.Errorf("mirror URL = %q, want %q", artifact.MirrorURL, mirror.url)
	}
}

func TestNarrationPipeline_MirrorFailureIsNotFatal(t *testing.T) {
	mirror := &stubMirror{err: errors.New("bucket unreachable")}
	pipeline := NewNarrationPipeline(adapters.NewZerologWrapper(),
		&stubGenerator{script: testScript()},
		&stubAssembler{summary: &domain.AudioSummary{Audio: []byte("a"), Transcript: "t", Characters: 1}},
		&stubArtifactStore{artifact: domain.StoredArtifact{AudioPath: "a.mp3", TranscriptPath: "a.txt"}},
		mirror)

	artifact, err := pipeline.Run(context.Background(), domain.Document{Title: "Doc", ExtractedText: "text"})
	if err != nil {
		t.Fatal("mirror failure should not fail the document:", err)
	}
	if artifact.MirrorURL != "" {
		t.Errorf("mirror URL = %q, want empty after mirror failure", artifact.MirrorURL)
	}
	if calls := atomic.LoadInt32(&mirror.calls); calls != 1 {
		t.Errorf("mirror called %d times, want 1", calls)
	}
}

func TestNarrationPipeline_GeneratorErrorPropagates(t *testing.T) {
	wantErr := &domain.ServiceError{Service: "generator", LineIndex: -1, Err: errors.New("upstream down")}
	pipeline := NewNarrationPipeline(adapters.NewZerologWrapper(),
		&stubGenerator{err: wantErr}, &stubAssembler{}, &stubArtifactStore{}, nil)

	_, err := pipeline.Run(context.Background(), domain.Document{Title: "Doc", ExtractedText: "text"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected generator error to propagate, got %v", err)
	}
}
