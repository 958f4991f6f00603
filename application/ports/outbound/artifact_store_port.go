package outbound

import (
	"time"

	"github.com/ekaud/my-audio-summaries/domain"
)

type ArtifactStorePort interface {
	// Write persists audio and transcript side by side, sharing one timestamp
	// so the pair can be correlated by filename.
	Write(audio []byte, transcript string, title string) (domain.StoredArtifact, error)

	// Cleanup removes audio files in dir older than maxAge and reports how
	// many were removed.
	Cleanup(dir string, maxAge time.Duration) (int, error)
}
