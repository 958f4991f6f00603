package domain

import "fmt"

// Speaker identifies one of the three fixed podcast voices.
type Speaker string

const (
	SpeakerFemale1 Speaker = "female-1"
	SpeakerMale1   Speaker = "male-1"
	SpeakerFemale2 Speaker = "female-2"
)

var speakerVoices = map[Speaker]string{
	SpeakerFemale1: "alloy",
	SpeakerMale1:   "onyx",
	SpeakerFemale2: "shimmer",
}

func (s Speaker) Valid() bool {
	_, ok := speakerVoices[s]
	return ok
}

// VoiceID returns the synthesis voice for the speaker. The speaker set is
// closed, so the lookup is a plain table.
func (s Speaker) VoiceID() string {
	return speakerVoices[s]
}

type DialogueLine struct {
	Text    string  `json:"text"`
	Speaker Speaker `json:"speaker"`
}

// TranscriptLine renders the line the way it appears in the saved transcript.
func (l DialogueLine) TranscriptLine() string {
	return string(l.Speaker) + ": " + l.Text
}

// DialogueScript is the structured output of the script generator. Lines is
// the canonical playback order and is never reordered downstream.
type DialogueScript struct {
	Scratchpad string         `json:"scratchpad"`
	Lines      []DialogueLine `json:"dialogue"`
}

// Validate checks the shape constraints the generator must satisfy before the
// script is handed to synthesis.
func (s *DialogueScript) Validate() error {
	if len(s.Lines) == 0 {
		return &ValidationError{Reason: "dialogue contains no lines"}
	}
	for i, line := range s.Lines {
		if line.Text == "" {
			return &ValidationError{Reason: fmt.Sprintf("line %d has empty text", i)}
		}
		if !line.Speaker.Valid() {
			return &ValidationError{Reason: fmt.Sprintf("line %d has unknown speaker %q", i, line.Speaker)}
		}
	}
	return nil
}

// SynthesisResult associates one line's synthesized audio back to its
// original position, since completion order differs from line order.
type SynthesisResult struct {
	LineIndex int
	Audio     []byte
}

// AudioSummary is the assembled narration for one document.
type AudioSummary struct {
	Audio      []byte
	Transcript string
	Characters int
}

// StoredArtifact describes the files the artifact writer produced.
type StoredArtifact struct {
	BaseName       string
	AudioPath      string
	TranscriptPath string
}

// NarrationArtifact is the final per-document result of the pipeline.
type NarrationArtifact struct {
	DocumentID     string
	Title          string
	AudioPath      string
	TranscriptPath string
	MirrorURL      string
	Lines          int
	Characters     int
}
