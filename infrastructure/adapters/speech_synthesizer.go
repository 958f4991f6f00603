package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
	"github.com/ekaud/my-audio-summaries/domain"
)

type ttsRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

type speechSynthesizer struct {
	ContentFetcher
	logger outbound.LoggerPort
	cfg    *config.TtsConfig
}

func NewSpeechSynthesizer(contentFetcher ContentFetcher, cfg *config.TtsConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &speechSynthesizer{
		ContentFetcher: contentFetcher,
		logger:         logger,
		cfg:            cfg,
	}
}

// Synthesize collects the complete encoded audio payload for one line of
// text. The byte format is whatever the backing service emits.
func (s *speechSynthesizer) Synthesize(ctx context.Context, params outbound.SynthesizeRequest) ([]byte, error) {
	if params.Text == "" {
		return nil, &domain.ValidationError{Reason: "synthesis text is empty"}
	}
	if params.VoiceID == "" {
		return nil, &domain.ValidationError{Reason: "synthesis voice is empty"}
	}

	newCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := s.getRequest(newCtx, params.Text, params.VoiceID)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to construct the HTTP request for speech synthesis", map[string]interface{}{
			"voice": params.VoiceID,
		})
		return nil, err
	}

	return s.FetchContent(req)
}

func (s *speechSynthesizer) getRequest(ctx context.Context, text string, voiceID string) (*http.Request, error) {
	reqBody := ttsRequest{
		Model:          s.cfg.Model,
		Voice:          voiceID,
		Input:          text,
		ResponseFormat: "mp3",
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body for the TTS API")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP POST request")
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Authorization", "Bearer "+s.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
