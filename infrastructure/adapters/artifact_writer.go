package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
	"github.com/ekaud/my-audio-summaries/domain"
)

const timestampLayout = "2006-01-02_15-04-05"

type artifactWriter struct {
	logger outbound.LoggerPort
	cfg    *config.OutputConfig
}

func NewArtifactWriter(cfg *config.OutputConfig, logger outbound.LoggerPort) outbound.ArtifactStorePort {
	return &artifactWriter{
		logger: logger,
		cfg:    cfg,
	}
}

// SanitizeTitle derives a filesystem-safe base name: alphanumerics, '-' and
// '_' pass through, whitespace becomes '-', everything else is dropped.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func (w *artifactWriter) Write(audio []byte, transcript string, title string) (domain.StoredArtifact, error) {
	base := SanitizeTitle(title) + "_" + time.Now().Format(timestampLayout)

	if err := os.MkdirAll(w.cfg.AudioDir, 0o755); err != nil {
		return domain.StoredArtifact{}, err
	}
	if err := os.MkdirAll(w.cfg.TranscriptDir, 0o755); err != nil {
		return domain.StoredArtifact{}, err
	}

	audioPath := filepath.Join(w.cfg.AudioDir, base+".mp3")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		w.logger.ErrorWithFields(err, "Failed to write audio file", map[string]interface{}{
			"path": audioPath,
		})
		return domain.StoredArtifact{}, err
	}

	transcriptPath := filepath.Join(w.cfg.TranscriptDir, base+".txt")
	if err := os.WriteFile(transcriptPath, []byte(transcript), 0o644); err != nil {
		w.logger.ErrorWithFields(err, "Failed to write transcript file", map[string]interface{}{
			"path": transcriptPath,
		})
		return domain.StoredArtifact{}, err
	}

	w.logger.DebugWithFields("artifacts written", map[string]interface{}{
		"audio":      audioPath,
		"transcript": transcriptPath,
	})

	return domain.StoredArtifact{
		BaseName:       base,
		AudioPath:      audioPath,
		TranscriptPath: transcriptPath,
	}, nil
}

// Cleanup is an on-demand retention sweep over dir, removing audio files
// whose modification time is older than maxAge.
func (w *artifactWriter) Cleanup(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".mp3" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				w.logger.ErrorWithFields(err, "Failed to remove expired audio file", map[string]interface{}{
					"path": path,
				})
				continue
			}
			removed++
		}
	}

	return removed, nil
}
