package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/donovanhide/eventsource"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/config"
	"github.com/ekaud/my-audio-summaries/domain"
)

const doneSignal = "[DONE]"

const dialoguePrompt = `Your task is to take the input text provided and turn it into an engaging, informative podcast dialogue. The input text may be messy or unstructured; extract the key points and interesting facts that could be discussed in a podcast.

Here is the input text you will be working with:

<input_text>
%s
</input_text>

First, brainstorm creative ways to discuss the main topics and key points in a scratchpad. Keep the podcast accessible to a general audience and briefly explain any complex concepts in simple terms.

Then write the actual podcast dialogue with a natural, conversational flow between the speakers. Design the lines to be read aloud, and have the speakers naturally summarize the main takeaways at the end.

Respond with a single JSON object of the shape:
{"scratchpad": "<your brainstorming notes>", "dialogue": [{"text": "<one utterance>", "speaker": "<female-1|male-1|female-2>"}, ...]}
Use only the speakers "female-1", "male-1" and "female-2". Do not emit anything besides the JSON object.`

type chatRequest struct {
	Stream         bool           `json:"stream"`
	Model          string         `json:"model"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []chatChunkChoice `json:"choices"`
}

type chatChunkChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type dialogueResponse struct {
	Scratchpad *string               `json:"scratchpad"`
	Dialogue   []domain.DialogueLine `json:"dialogue"`
}

type dialogueGenerator struct {
	logger outbound.LoggerPort
	cfg    *config.GeneratorConfig
}

func NewDialogueGenerator(cfg *config.GeneratorConfig, logger outbound.LoggerPort) outbound.DialogueGeneratorPort {
	return &dialogueGenerator{
		logger: logger,
		cfg:    cfg,
	}
}

// Generate asks the model for a dialogue script and validates the returned
// shape. Malformed output is retried with a fixed backoff up to the
// configured attempt cap; transport failures are terminal.
func (g *dialogueGenerator) Generate(ctx context.Context, text string) (*domain.DialogueScript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &domain.ValidationError{Reason: "input text is empty"}
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		raw, err := g.streamCompletion(ctx, text)
		if err != nil {
			return nil, err
		}

		script, err := g.parseScript(raw)
		if err == nil {
			g.logger.InfoWithFields("dialogue script generated", map[string]interface{}{
				"lines":   len(script.Lines),
				"attempt": attempt,
			})
			return script, nil
		}

		lastErr = err
		g.logger.WarnWithFields("model returned a malformed dialogue script", map[string]interface{}{
			"attempt": attempt,
			"cause":   err.Error(),
		})

		if attempt < g.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(g.cfg.RetryBackoff):
			}
		}
	}

	return nil, lastErr
}

func (g *dialogueGenerator) streamCompletion(ctx context.Context, text string) (string, error) {
	newCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req, err := g.createRequest(newCtx, text)
	if err != nil {
		g.logger.Error(err, "Failed to create HTTP request for script stream")
		return "", &domain.ServiceError{Service: "generator", LineIndex: -1, Err: err}
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		g.logger.Error(err, "Failed to subscribe to script stream")
		return "", &domain.ServiceError{Service: "generator", LineIndex: -1, Err: err}
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		select {
		case <-newCtx.Done():
			return "", &domain.ServiceError{Service: "generator", LineIndex: -1, Err: newCtx.Err()}
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return builder.String(), nil
			}
			payload, err := g.extractDelta(ev)
			if err != nil {
				return "", &domain.ServiceError{Service: "generator", LineIndex: -1, Err: err}
			}
			builder.WriteString(payload)
		case err := <-stream.Errors:
			if err == io.EOF {
				return builder.String(), nil
			}
			g.logger.Error(err, "Error occurred during script streaming")
			return "", &domain.ServiceError{Service: "generator", LineIndex: -1, Err: err}
		}
	}
}

func (g *dialogueGenerator) extractDelta(event eventsource.Event) (string, error) {
	var chunkBody chatChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		g.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}
	return chunkBody.Choices[0].Delta.Content, nil
}

func (g *dialogueGenerator) parseScript(raw string) (*domain.DialogueScript, error) {
	raw = stripCodeFence(raw)

	var res dialogueResponse
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, &domain.ValidationError{Reason: "response is not valid JSON: " + err.Error()}
	}
	if res.Scratchpad == nil {
		return nil, &domain.ValidationError{Reason: "missing scratchpad"}
	}

	script := &domain.DialogueScript{
		Scratchpad: *res.Scratchpad,
		Lines:      res.Dialogue,
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// stripCodeFence trims a markdown fence some models wrap JSON output in.
func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func (g *dialogueGenerator) createRequest(ctx context.Context, text string) (*http.Request, error) {
	promptReq := chatRequest{
		Stream:         true,
		Model:          g.cfg.Model,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: fmt.Sprintf(dialoguePrompt, text),
			},
		},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
