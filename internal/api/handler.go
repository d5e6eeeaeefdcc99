package api

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
	"rfp-intake/internal/rfp"
	"rfp-intake/internal/storage"
)

// DocumentProcessor runs an upload through the intake pipeline.
type DocumentProcessor interface {
	Validate(u rfp.Upload) error
	Process(ctx context.Context, u rfp.Upload) (*models.Document, error)
	MaxBytes() int64
}

// Exporter renders the dashboard list as a spreadsheet.
type Exporter interface {
	DocumentsXLSX(ctx context.Context, q string) ([]byte, error)
}

type API struct {
	store     storage.Store
	processor DocumentProcessor
	exporter  Exporter
	log       *zap.Logger
}

func NewAPI(store storage.Store, processor DocumentProcessor, exporter Exporter, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		store:     store,
		processor: processor,
		exporter:  exporter,
		log:       log.Named("api"),
	}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Message: message, Details: details})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
