package ocr

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/internal/config"
)

// ErrUnreadable marks a document the extractor could not parse at all, as
// opposed to one that parsed but contained no text.
var ErrUnreadable = eris.New("ocr: unreadable document")

// Extractor extracts text content from PDF documents.
type Extractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "native", "":
		return NewNative(), nil
	case "local":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires ocr.mistral_api_key")
		}
		return NewMistralOCR(cfg.MistralKey, cfg.MistralModel), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

// Normalized wraps an Extractor so its output passes through Normalize.
func Normalized(e Extractor) Extractor {
	return normalized{next: e}
}

type normalized struct {
	next Extractor
}

func (n normalized) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	text, err := n.next.ExtractText(ctx, pdf)
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}
