// Package api exposes the claim pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/claim"
	"github.com/sells-group/claims-cli/internal/ocr"
)

const (
	pdfContentType  = "application/pdf"
	filesField      = "files"
	multipartMemory = 32 << 20
)

// Handler serves claim processing requests.
type Handler struct {
	pipeline       *claim.Pipeline
	text           claim.TextSource
	maxUploadBytes int64
	concurrency    int
}

// NewHandler creates a Handler. maxUploadMB caps the request body;
// concurrency caps documents processed at once (0 means no cap).
func NewHandler(p *claim.Pipeline, text claim.TextSource, maxUploadMB, concurrency int) *Handler {
	return &Handler{
		pipeline:       p,
		text:           text,
		maxUploadBytes: int64(maxUploadMB) << 20,
		concurrency:    concurrency,
	}
}

type processResponse struct {
	Message string         `json:"message"`
	Results []claim.Result `json:"results"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ProcessClaim accepts a multipart upload of PDF documents under the
// "files" field and returns one result per document, in upload order.
func (h *Handler) ProcessClaim(w http.ResponseWriter, r *http.Request) {
	log := zap.L().With(zap.String("request_id", RequestIDFrom(r.Context())))

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeDetail(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Upload exceeds the %d MB limit.", h.maxUploadBytes>>20))
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			writeDetail(w, http.StatusBadRequest, "No files were uploaded.")
		default:
			writeDetail(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		}
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files := r.MultipartForm.File[filesField]
	if len(files) == 0 {
		writeDetail(w, http.StatusBadRequest, "No files were uploaded.")
		return
	}

	// Every declared type is checked before any file is read.
	for _, fh := range files {
		if !isPDF(fh) {
			log.Warn("api: rejected non-PDF upload",
				zap.String("file_name", fh.Filename),
				zap.String("content_type", fh.Header.Get("Content-Type")),
			)
			writeDetail(w, http.StatusUnsupportedMediaType,
				fmt.Sprintf("Invalid file type for '%s'. Only PDFs are accepted.", fh.Filename))
			return
		}
	}

	uploads := make([]claim.Upload, 0, len(files))
	for _, fh := range files {
		data, err := readFile(fh)
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "Failed to read upload '"+fh.Filename+"': "+err.Error())
			return
		}
		uploads = append(uploads, claim.Upload{FileName: fh.Filename, Data: data})
	}

	log.Info("api: processing claim", zap.Int("files", len(uploads)))

	docs, err := claim.LoadDocuments(r.Context(), h.text, uploads, h.concurrency)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ocr.ErrUnreadable) {
			status = http.StatusBadRequest
		}
		msg := err.Error()
		var te *claim.TextError
		if errors.As(err, &te) {
			msg = te.Err.Error()
			log = log.With(zap.String("file_name", te.FileName))
		}
		log.Warn("api: text extraction failed", zap.Int("status", status), zap.Error(err))
		writeDetail(w, status, "Failed to extract text from PDF: "+msg)
		return
	}

	results := h.pipeline.ProcessDocuments(r.Context(), docs, h.concurrency)
	writeJSON(w, http.StatusOK, processResponse{
		Message: "Files processed successfully.",
		Results: results,
	})
}

func isPDF(fh *multipart.FileHeader) bool {
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	return err == nil && mediaType == pdfContentType
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return io.ReadAll(f)
}

// writeJSON encodes v before touching the response, so an encoding failure
// becomes a 500 instead of a success status with a truncated body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("api: encode response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Detail: "Failed to encode response."})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Warn("api: write response", zap.Error(err))
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
