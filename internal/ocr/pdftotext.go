package ocr

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText extractor. If binPath is empty, "pdftotext" is used.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// ExtractText spools pdf to a temp file, runs pdftotext -layout on it and
// returns stdout.
func (p *PdfToText) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	tmp, err := os.CreateTemp("", "claim-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "ocr: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(pdf); err != nil {
		_ = tmp.Close()
		return "", eris.Wrap(err, "ocr: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "ocr: close temp file")
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", tmp.Name(), "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", eris.Wrap(ctxErr, "ocr: pdftotext canceled")
		}
		// A non-zero exit means pdftotext rejected the document. Anything
		// else (missing binary, exec failure) is a server-side problem.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", eris.Wrapf(ErrUnreadable, "ocr: pdftotext failed: %v: %s", err, stderr.String())
		}
		return "", eris.Wrap(err, "ocr: run pdftotext")
	}

	return stdout.String(), nil
}
