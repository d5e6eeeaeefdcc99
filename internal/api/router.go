package api

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID, Recoverer(a.log), Logging(a.log))

	// Swagger documentation
	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Static paths go before {id} so they are not parsed as ids.
	api.HandleFunc("/documents", a.ListDocumentsHandler).Methods(http.MethodGet)
	api.HandleFunc("/documents/upload", a.UploadDocumentHandler).Methods(http.MethodPost)
	api.HandleFunc("/documents/stats", a.DocumentStatsHandler).Methods(http.MethodGet)
	api.HandleFunc("/documents/export", a.ExportDocumentsHandler).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", a.GetDocumentHandler).Methods(http.MethodGet)

	return r
}
