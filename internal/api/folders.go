package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sebenza/mailstore/internal/store"
)

type createFolderRequest struct {
	Name string `json:"name"`
}

func (s *Server) listFoldersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.store.GetFolders(), http.StatusOK)
}

func (s *Server) createFolderHandler(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(w, "folder name is required", http.StatusBadRequest)
		return
	}
	folder := s.store.CreateFolder(req.Name)
	writeJSON(w, folder, http.StatusCreated)
}

func (s *Server) deleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteFolder(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listFolderEmailsHandler(w http.ResponseWriter, r *http.Request) {
	records := s.store.GetEmailsForFolder(mux.Vars(r)["id"])
	writeJSON(w, store.SummarizeAll(records), http.StatusOK)
}
