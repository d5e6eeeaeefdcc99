package api

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"rfp-intake/internal/apperr"
	"rfp-intake/internal/models"
	"rfp-intake/internal/rfp"
)

// multipart headers and boundaries on top of the file itself
const multipartOverhead = 1 << 20

// GetDocumentHandler returns one document
// @Summary Get document
// @Description Get an uploaded RFP document and its analysis by ID
// @Tags documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.Document
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/{id} [get]
func (a *API) GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document ID", "")
		return
	}

	doc, err := a.store.GetDocument(r.Context(), id)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			writeError(w, http.StatusNotFound, "Document not found", "")
			return
		}
		a.log.Error("get document failed", zap.Int("document_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve document", "")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// ListDocumentsHandler lists documents in upload order
// @Summary List documents
// @Description List all uploaded documents, optionally filtered by title, agency or RFP number
// @Tags documents
// @Produce json
// @Param q query string false "Case-insensitive search text"
// @Success 200 {array} models.Document
// @Failure 500 {object} ErrorResponse
// @Router /documents [get]
func (a *API) ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := a.store.ListDocuments(r.Context())
	if err != nil {
		a.log.Error("list documents failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list documents", "")
		return
	}
	writeJSON(w, http.StatusOK, models.FilterDocuments(docs, r.URL.Query().Get("q")))
}

// UploadDocumentHandler uploads and analyzes an RFP
// @Summary Upload RFP
// @Description Upload a PDF or DOCX (max 10MB); text is extracted and analyzed before the response
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "RFP file (PDF or DOCX)"
// @Success 201 {object} models.Document
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /documents/upload [post]
func (a *API) UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	maxBytes := a.processor.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, "File too large", "")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer file.Close()

	upload := rfp.Upload{
		FileName: header.Filename,
		MimeType: uploadMimeType(header.Header.Get("Content-Type"), header.Filename),
		Size:     header.Size,
	}
	// Reject before copying the part into memory.
	if err := a.processor.Validate(upload); err != nil {
		writeError(w, statusFor(err), err.Error(), "")
		return
	}

	upload.Data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file", err.Error())
		return
	}

	doc, err := a.processor.Process(r.Context(), upload)
	if err != nil {
		if apperr.IsKind(err, apperr.Validation) {
			writeError(w, http.StatusBadRequest, err.Error(), "")
			return
		}
		a.log.Error("upload failed", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload and process document", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// DocumentStatsHandler summarizes the dashboard
// @Summary Document statistics
// @Description Totals, processed count, strong matches (score >= 70) and average score
// @Tags documents
// @Produce json
// @Success 200 {object} models.Stats
// @Failure 500 {object} ErrorResponse
// @Router /documents/stats [get]
func (a *API) DocumentStatsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := a.store.ListDocuments(r.Context())
	if err != nil {
		a.log.Error("stats failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to compute statistics", "")
		return
	}
	writeJSON(w, http.StatusOK, models.ComputeStats(docs))
}

// ExportDocumentsHandler downloads the dashboard as XLSX
// @Summary Export documents
// @Description Download the document list as an Excel workbook
// @Tags documents
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param q query string false "Case-insensitive search text"
// @Success 200 {file} file
// @Failure 500 {object} ErrorResponse
// @Router /documents/export [get]
func (a *API) ExportDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	b, err := a.exporter.DocumentsXLSX(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		a.log.Error("export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to export documents", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="rfp-documents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// uploadMimeType trusts the part's Content-Type and falls back to the file
// extension when the client sent a generic type.
func uploadMimeType(contentType, filename string) string {
	contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.MimePDF
	case ".docx":
		return models.MimeDOCX
	}
	return contentType
}
