package config

import (
	"testing"
	"time"
)

func TestGetGeneratorConfig(t *testing.T) {
	t.Setenv("GENERATOR_API_URL", "https://api.example.com/v1/chat/completions")
	t.Setenv("GENERATOR_API_KEY", "key")
	t.Setenv("GENERATOR_MODEL", "gpt-test")

	cfg, err := GetGeneratorConfig()
	if err != nil {
		t.Fatal("Failed to load generator config:", err)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("default MaxAttempts = %d, want 3", cfg.MaxAttempts)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("default Timeout = %v, want 120s", cfg.Timeout)
	}

	t.Setenv("GENERATOR_MAX_ATTEMPTS", "5")
	t.Setenv("GENERATOR_TIMEOUT_SECONDS", "30")
	cfg, err = GetGeneratorConfig()
	if err != nil {
		t.Fatal("Failed to load generator config:", err)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestGetGeneratorConfig_MissingURL(t *testing.T) {
	t.Setenv("GENERATOR_API_URL", "")
	t.Setenv("GENERATOR_API_KEY", "key")
	t.Setenv("GENERATOR_MODEL", "gpt-test")

	if _, err := GetGeneratorConfig(); err == nil {
		t.Error("expected an error when GENERATOR_API_URL is unset")
	}
}

func TestGetGeneratorConfig_BadAttempts(t *testing.T) {
	t.Setenv("GENERATOR_API_URL", "https://api.example.com")
	t.Setenv("GENERATOR_API_KEY", "key")
	t.Setenv("GENERATOR_MODEL", "gpt-test")
	t.Setenv("GENERATOR_MAX_ATTEMPTS", "zero")

	if _, err := GetGeneratorConfig(); err == nil {
		t.Error("expected an error for a non-numeric attempt cap")
	}
}

func TestGetOutputConfig_Defaults(t *testing.T) {
	t.Setenv("AUDIO_OUTPUT_DIR", "")
	t.Setenv("TRANSCRIPT_OUTPUT_DIR", "")
	t.Setenv("RETENTION_HOURS", "")

	cfg, err := GetOutputConfig()
	if err != nil {
		t.Fatal("Failed to load output config:", err)
	}
	if cfg.AudioDir != "output/audio" {
		t.Errorf("AudioDir = %q", cfg.AudioDir)
	}
	if cfg.TranscriptDir != "output/transcripts" {
		t.Errorf("TranscriptDir = %q", cfg.TranscriptDir)
	}
	if cfg.RetentionHours != 24 {
		t.Errorf("RetentionHours = %d, want 24", cfg.RetentionHours)
	}
}

func TestGetOutputConfig_RejectsNonPositiveRetention(t *testing.T) {
	t.Setenv("RETENTION_HOURS", "0")

	if _, err := GetOutputConfig(); err == nil {
		t.Error("expected an error for a non-positive retention window")
	}
}
