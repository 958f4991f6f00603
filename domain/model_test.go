package domain

import (
	"errors"
	"testing"
)

func TestSpeakerVoices(t *testing.T) {
	cases := []struct {
		speaker Speaker
		voice   string
	}{
		{SpeakerFemale1, "alloy"},
		{SpeakerMale1, "onyx"},
		{SpeakerFemale2, "shimmer"},
	}
	for _, tc := range cases {
		if !tc.speaker.Valid() {
			t.Errorf("%q should be a valid speaker", tc.speaker)
		}
		if got := tc.speaker.VoiceID(); got != tc.voice {
			t.Errorf("VoiceID(%q) = %q, want %q", tc.speaker, got, tc.voice)
		}
	}

	if Speaker("narrator").Valid() {
		t.Error("unknown speakers must not validate")
	}
}

func TestDialogueLine_TranscriptLine(t *testing.T) {
	line := DialogueLine{Text: "Hello there", Speaker: SpeakerFemale1}
	if got := line.TranscriptLine(); got != "female-1: Hello there" {
		t.Errorf("TranscriptLine() = %q", got)
	}
}

func TestDialogueScript_Validate(t *testing.T) {
	valid := DialogueScript{
		Scratchpad: "plan",
		Lines: []DialogueLine{
			{Text: "Hello", Speaker: SpeakerFemale1},
			{Text: "Hi", Speaker: SpeakerMale1},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Error("valid script rejected:", err)
	}

	cases := []struct {
		name   string
		script DialogueScript
	}{
		{"no lines", DialogueScript{Scratchpad: "plan"}},
		{"empty text", DialogueScript{Lines: []DialogueLine{{Text: "", Speaker: SpeakerMale1}}}},
		{"unknown speaker", DialogueScript{Lines: []DialogueLine{{Text: "Hi", Speaker: "narrator"}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.script.Validate()
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("expected a ValidationError, got %v", err)
			}
		})
	}
}

func TestServiceError_Messages(t *testing.T) {
	cause := errors.New("connection reset")

	withLine := &ServiceError{Service: "speech", LineIndex: 3, Err: cause}
	if got := withLine.Error(); got != "speech service failed for line 3: connection reset" {
		t.Errorf("Error() = %q", got)
	}

	lineless := &ServiceError{Service: "generator", LineIndex: -1, Err: cause}
	if got := lineless.Error(); got != "generator service failed: connection reset" {
		t.Errorf("Error() = %q", got)
	}

	if !errors.Is(withLine, cause) {
		t.Error("ServiceError should unwrap to its cause")
	}
}
