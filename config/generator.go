package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type GeneratorConfig struct {
	ApiUrl       string
	ApiKey       string
	Model        string
	MaxAttempts  int
	RetryBackoff time.Duration
	Timeout      time.Duration
}

func GetGeneratorConfig() (*GeneratorConfig, error) {
	apiUrl := os.Getenv("GENERATOR_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("GENERATOR_API_URL must be set")
	}
	apiKey := os.Getenv("GENERATOR_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GENERATOR_API_KEY must be set")
	}
	model := os.Getenv("GENERATOR_MODEL")
	if model == "" {
		return nil, fmt.Errorf("GENERATOR_MODEL must be set")
	}

	maxAttempts := 3
	if raw := os.Getenv("GENERATOR_MAX_ATTEMPTS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("failed to parse GENERATOR_MAX_ATTEMPTS")
		}
		maxAttempts = parsed
	}

	timeout := 120 * time.Second
	if raw := os.Getenv("GENERATOR_TIMEOUT_SECONDS"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("failed to parse GENERATOR_TIMEOUT_SECONDS")
		}
		timeout = time.Duration(parsed) * time.Second
	}

	return &GeneratorConfig{
		ApiUrl:       apiUrl,
		ApiKey:       apiKey,
		Model:        model,
		MaxAttempts:  maxAttempts,
		RetryBackoff: 2 * time.Second,
		Timeout:      timeout,
	}, nil
}
