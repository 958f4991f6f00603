package services

import (
	"strings"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/domain"
)

// ProcessorRegistry maps MIME types to the processor that can flatten them
// to plain text.
type ProcessorRegistry struct {
	logger     outbound.LoggerPort
	processors map[string]outbound.DocumentProcessor
}

func NewProcessorRegistry(logger outbound.LoggerPort) *ProcessorRegistry {
	return &ProcessorRegistry{
		logger:     logger,
		processors: make(map[string]outbound.DocumentProcessor),
	}
}

func (r *ProcessorRegistry) Register(mimeTypes []string, processor outbound.DocumentProcessor) {
	for _, mimeType := range mimeTypes {
		r.processors[strings.ToLower(mimeType)] = processor
	}
}

func (r *ProcessorRegistry) ProcessorFor(mimeType string) (outbound.DocumentProcessor, bool) {
	processor, ok := r.processors[strings.ToLower(mimeType)]
	return processor, ok
}

// ExtractText fills doc.ExtractedText using the registered processor for its
// MIME type. It reports false when no processor supports the type.
func (r *ProcessorRegistry) ExtractText(doc *domain.Document) (bool, error) {
	processor, ok := r.ProcessorFor(doc.MimeType)
	if !ok {
		r.logger.WarnWithFields("no processor registered for MIME type", map[string]interface{}{
			"mime_type": doc.MimeType,
			"title":     doc.Title,
		})
		return false, nil
	}

	text, err := processor.Process(doc.Content)
	if err != nil {
		return true, err
	}
	doc.ExtractedText = text
	return true, nil
}
