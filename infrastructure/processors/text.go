package processors

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
)

type textProcessor struct{}

func NewTextProcessor() outbound.DocumentProcessor {
	return &textProcessor{}
}

func (p *textProcessor) SupportsMimeType(mimeType string) bool {
	return strings.ToLower(mimeType) == "text/plain"
}

func (p *textProcessor) Process(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("text content is not valid UTF-8")
	}
	return string(content), nil
}
