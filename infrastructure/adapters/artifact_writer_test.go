package adapters

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/ekaud/my-audio-summaries/config"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Q3 Report: Draft #2", "Q3-Report-Draft-2"},
		{"hello", "hello"},
		{"hello!!!", "hello"},
		{"trailing space ", "trailing-space"},
		{"under_score-kept", "under_score-kept"},
		{"tabs\tand\nnewlines", "tabs-and-newlines"},
		{"///", ""},
	}

	safe := regexp.MustCompile(`^[\pL\pN_-]*$`)
	for _, tc := range cases {
		got := SanitizeTitle(tc.title)
		if got != tc.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.title, got, tc.want)
		}
		if !safe.MatchString(got) {
			t.Errorf("SanitizeTitle(%q) = %q contains unsafe characters", tc.title, got)
		}
	}
}

func TestArtifactWriter_WritesPairedFiles(t *testing.T) {
	root := t.TempDir()
	cfg := &config.OutputConfig{
		AudioDir:      filepath.Join(root, "audio"),
		TranscriptDir: filepath.Join(root, "transcripts"),
	}

	writer := NewArtifactWriter(cfg, NewZerologWrapper())

	stored, err := writer.Write([]byte("mp3-bytes"), "female-1: Hello\n\n", "Weekly Report")
	if err != nil {
		t.Fatal("Failed to write artifacts:", err)
	}

	basePattern := regexp.MustCompile(`^Weekly-Report_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`)
	if !basePattern.MatchString(stored.BaseName) {
		t.Errorf("base name %q does not match <title>_<timestamp>", stored.BaseName)
	}

	audio, err := os.ReadFile(stored.AudioPath)
	if err != nil {
		t.Fatal("Failed to read audio artifact:", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio payload = %q", audio)
	}

	transcript, err := os.ReadFile(stored.TranscriptPath)
	if err != nil {
		t.Fatal("Failed to read transcript artifact:", err)
	}
	if string(transcript) != "female-1: Hello\n\n" {
		t.Errorf("transcript payload = %q", transcript)
	}

	// Both paths must share the same base so the pair stays correlated.
	if filepath.Base(stored.AudioPath) != stored.BaseName+".mp3" {
		t.Errorf("audio path %q does not use base %q", stored.AudioPath, stored.BaseName)
	}
	if filepath.Base(stored.TranscriptPath) != stored.BaseName+".txt" {
		t.Errorf("transcript path %q does not use base %q", stored.TranscriptPath, stored.BaseName)
	}
}

func TestArtifactWriter_CleanupRemovesOnlyExpiredAudio(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.OutputConfig{AudioDir: dir, TranscriptDir: dir}
	writer := NewArtifactWriter(cfg, NewZerologWrapper())

	write := func(name string, age time.Duration) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal("Failed to write fixture:", err)
		}
		mtime := time.Now().Add(-age)
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal("Failed to age fixture:", err)
		}
	}

	write("fresh.mp3", time.Hour)
	write("old.mp3", 30*time.Hour)
	write("old-note.txt", 30*time.Hour)

	removed, err := writer.Cleanup(dir, 24*time.Hour)
	if err != nil {
		t.Fatal("Failed to clean up:", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(filepath.Join(dir, "fresh.mp3")); err != nil {
		t.Error("fresh.mp3 should survive the sweep:", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.mp3")); !os.IsNotExist(err) {
		t.Error("old.mp3 should have been removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "old-note.txt")); err != nil {
		t.Error("non-audio files are never swept:", err)
	}
}

func TestArtifactWriter_CleanupMissingDirIsNoop(t *testing.T) {
	writer := NewArtifactWriter(&config.OutputConfig{}, NewZerologWrapper())

	removed, err := writer.Cleanup(filepath.Join(t.TempDir(), "never-created"), time.Hour)
	if err != nil {
		t.Fatal("missing directory should not be an error:", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
