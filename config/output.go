package config

import (
	"fmt"
	"os"
	"strconv"
)

type OutputConfig struct {
	AudioDir       string
	TranscriptDir  string
	RetentionHours int
}

func GetOutputConfig() (*OutputConfig, error) {
	audioDir := os.Getenv("AUDIO_OUTPUT_DIR")
	if audioDir == "" {
		audioDir = "output/audio"
	}
	transcriptDir := os.Getenv("TRANSCRIPT_OUTPUT_DIR")
	if transcriptDir == "" {
		transcriptDir = "output/transcripts"
	}

	retentionHours := 24
	if raw := os.Getenv("RETENTION_HOURS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("failed to parse RETENTION_HOURS")
		}
		retentionHours = parsed
	}

	return &OutputConfig{
		AudioDir:       audioDir,
		TranscriptDir:  transcriptDir,
		RetentionHours: retentionHours,
	}, nil
}
