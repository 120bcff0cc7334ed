package claim

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NoTextError is the result error for a document with no extractable text.
const NoTextError = "No text could be extracted from the PDF."

// TextSource extracts plain text from a document's bytes.
type TextSource interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Upload is a submitted document before text extraction.
type Upload struct {
	FileName string
	Data     []byte
}

// Document is a submitted document with its extracted text.
type Document struct {
	FileName string
	Text     string
}

// TextError reports that a document's text could not be extracted.
type TextError struct {
	FileName string
	Err      error
}

func (e *TextError) Error() string {
	return e.FileName + ": " + e.Err.Error()
}

func (e *TextError) Unwrap() error {
	return e.Err
}

// LoadDocuments extracts the text of every upload concurrently, at most
// limit at a time (no limit when limit <= 0). The first failure cancels
// the rest and is returned as a *TextError. Documents keep upload order.
func LoadDocuments(ctx context.Context, src TextSource, uploads []Upload, limit int) ([]Document, error) {
	docs := make([]Document, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, up := range uploads {
		g.Go(func() error {
			text, err := src.ExtractText(gctx, up.Data)
			if err != nil {
				return &TextError{FileName: up.FileName, Err: err}
			}
			docs[i] = Document{FileName: up.FileName, Text: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ProcessDocuments runs every document through the pipeline concurrently,
// at most limit at a time (no limit when limit <= 0), and waits for all of
// them. The returned results are aligned with docs. Documents with blank
// text are reported as errors without invoking the pipeline.
func (p *Pipeline) ProcessDocuments(ctx context.Context, docs []Document, limit int) []Result {
	results := make([]Result, len(docs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			zap.L().Warn("claim: no text extracted", zap.String("file_name", doc.FileName))
			results[i] = Result{FileName: doc.FileName, Error: NoTextError}
			continue
		}
		g.Go(func() error {
			outcome := p.Run(ctx, doc.Text, doc.FileName)
			results[i] = Result{FileName: doc.FileName, Outcome: &outcome}
			return nil
		})
	}
	// Per-document failures are folded into results, so Wait never errors.
	_ = g.Wait()

	return results
}

// ProcessUploads extracts text from uploads and processes the documents.
// Only text extraction can fail the call.
func (p *Pipeline) ProcessUploads(ctx context.Context, src TextSource, uploads []Upload, limit int) ([]Result, error) {
	docs, err := LoadDocuments(ctx, src, uploads, limit)
	if err != nil {
		return nil, eris.Wrap(err, "claim: load documents")
	}
	return p.ProcessDocuments(ctx, docs, limit), nil
}
