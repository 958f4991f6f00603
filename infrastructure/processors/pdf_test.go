package processors

import (
	"testing"

	"github.com/ekaud/my-audio-summaries/infrastructure/adapters"
)

func TestPDFProcessor_SupportsMimeType(t *testing.T) {
	p := NewPDFProcessor(adapters.NewZerologWrapper())

	if !p.SupportsMimeType("application/pdf") {
		t.Error("application/pdf should be supported")
	}
	if !p.SupportsMimeType("Application/PDF") {
		t.Error("MIME type matching should be case-insensitive")
	}
	if p.SupportsMimeType("text/plain") {
		t.Error("text/plain is not a PDF type")
	}
}

func TestPDFProcessor_RejectsInvalidContent(t *testing.T) {
	p := NewPDFProcessor(adapters.NewZerologWrapper())

	if _, err := p.Process([]byte("not a pdf")); err == nil {
		t.Error("non-PDF bytes should be rejected")
	}
}
