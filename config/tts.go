package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type TtsConfig struct {
	ApiUrl  string
	ApiKey  string
	Model   string
	Timeout time.Duration
}

func GetTtsConfig() (*TtsConfig, error) {
	apiUrl := os.Getenv("TTS_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("TTS_API_URL must be set")
	}
	apiKey := os.Getenv("TTS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TTS_API_KEY must be set")
	}
	model := os.Getenv("TTS_MODEL")
	if model == "" {
		return nil, fmt.Errorf("TTS_MODEL must be set")
	}

	timeout := 60 * time.Second
	if raw := os.Getenv("TTS_TIMEOUT_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("failed to parse TTS_TIMEOUT_SECONDS")
		}
		timeout = time.Duration(parsed) * time.Second
	}

	return &TtsConfig{
		ApiUrl:  apiUrl,
		ApiKey:  apiKey,
		Model:   model,
		Timeout: timeout,
	}, nil
}
