package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
)

// Native extracts the embedded text layer in-process. Scanned documents
// without a text layer yield empty text; use the mistral provider for those.
type Native struct{}

// NewNative creates a Native extractor.
func NewNative() *Native {
	return &Native{}
}

// ExtractText parses pdfData and returns the plain text of all pages.
func (n *Native) ExtractText(ctx context.Context, pdfData []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(pdfData) == 0 {
		return "", eris.Wrap(ErrUnreadable, "ocr: empty document")
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = eris.Wrap(ErrUnreadable, fmt.Sprintf("ocr: parse pdf: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", eris.Wrap(ErrUnreadable, "ocr: open pdf: "+err.Error())
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", eris.Wrap(ErrUnreadable, "ocr: read text: "+err.Error())
	}

	out, err := io.ReadAll(plain)
	if err != nil {
		return "", eris.Wrap(err, "ocr: read text")
	}
	return string(out), nil
}
