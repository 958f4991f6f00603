package processors

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
)

type pdfProcessor struct {
	logger outbound.LoggerPort
}

func NewPDFProcessor(logger outbound.LoggerPort) outbound.DocumentProcessor {
	return &pdfProcessor{
		logger: logger,
	}
}

func (p *pdfProcessor) SupportsMimeType(mimeType string) bool {
	return strings.ToLower(mimeType) == "application/pdf"
}

// Process extracts the page texts, joined with blank lines so page breaks
// stay visible in the flattened document.
func (p *pdfProcessor) Process(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		p.logger.Error(err, "Failed to open PDF content")
		return "", err
	}

	var pages []string
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.ErrorWithFields(err, "Failed to extract text from PDF page", map[string]interface{}{
				"page": pageIndex,
			})
			return "", err
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	return strings.Join(pages, "\n\n"), nil
}
