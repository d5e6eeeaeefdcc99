package rfp

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
)

// Extractor turns an uploaded PDF or DOCX into plain text.
type Extractor struct {
	tmpDir string
	log    *zap.Logger

	convertPDF  func(r io.Reader) (string, error)
	convertPath func(path string) (string, error)
}

func NewExtractor(tmpDir string, log *zap.Logger) *Extractor {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		tmpDir: tmpDir,
		log:    log.Named("extractor"),
		convertPDF: func(r io.Reader) (string, error) {
			text, _, err := docconv.ConvertPDF(r)
			return text, err
		},
		convertPath: func(path string) (string, error) {
			res, err := docconv.ConvertPath(path)
			if err != nil {
				return "", err
			}
			return res.Body, nil
		},
	}
}

// Extract returns the document text with line breaks kept. Empty or
// whitespace-only output counts as a failure.
func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperr.Wrap(apperr.Extraction, err, "Failed to extract text from document")
	}

	var (
		text string
		err  error
	)
	switch mimeType {
	case models.MimePDF:
		text, err = e.convertPDF(bytes.NewReader(data))
		if err != nil {
			return "", apperr.Wrap(apperr.Extraction, err, "Failed to extract text from PDF")
		}
	case models.MimeDOCX:
		text, err = e.extractDOCX(data)
		if err != nil {
			return "", apperr.Wrap(apperr.Extraction, err, "Failed to extract text from DOCX")
		}
	default:
		return "", apperr.Newf(apperr.Extraction, "Unsupported file format: %s", mimeType)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.Extraction, "No text content could be extracted from the document")
	}

	e.log.Debug("text extracted", zap.String("mime", mimeType), zap.Int("chars", len(text)))
	return text, nil
}

// extractDOCX goes through a temp file because the converter works on paths.
// The file is removed on every exit path.
func (e *Extractor) extractDOCX(data []byte) (string, error) {
	if err := os.MkdirAll(e.tmpDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(e.tmpDir, uuid.New().String()+".docx")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.log.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
		}
	}()

	return e.convertPath(path)
}
