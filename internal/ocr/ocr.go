package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fuelprices-cli/internal/config"
)

// ErrUnreadable means the document bytes could not be turned into text.
var ErrUnreadable = eris.New("ocr: unreadable document")

// Extractor extracts text content from PDF documents.
type Extractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case "pdf", "":
		return NewPDFReader(), nil
	case "pdftotext":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralAPIKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralAPIKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
