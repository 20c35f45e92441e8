package api

import (
	"io"
	"net/http"

	"github.com/sebenza/mailstore/internal/store"
)

func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, "query parameter q is required", http.StatusBadRequest)
		return
	}
	folder := r.URL.Query().Get("folder")
	records := s.store.SearchEmails(query, folder)
	writeJSON(w, store.SummarizeAll(records), http.StatusOK)
}

// importHandler accepts an export payload of the form
// {"emails": [...]} and loads it through the bulk importer.
func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	result := s.store.ImportJSON(data)
	writeJSON(w, result, http.StatusOK)
}
