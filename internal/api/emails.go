package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sebenza/mailstore/internal/normalize"
	"github.com/sebenza/mailstore/internal/store"
	"github.com/sebenza/mailstore/pkg/types"
)

type createEmailRequest struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Cc       []string `json:"cc"`
	Bcc      []string `json:"bcc"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	IsHTML   bool     `json:"is_html"`
	Folder   string   `json:"folder"`
	Labels   []string `json:"labels"`
	Priority string   `json:"priority"`
}

type updateEmailRequest struct {
	Subject     *string   `json:"subject"`
	Body        *string   `json:"body"`
	IsHTML      *bool     `json:"is_html"`
	IsRead      *bool     `json:"is_read"`
	IsStarred   *bool     `json:"is_starred"`
	IsImportant *bool     `json:"is_important"`
	IsPinned    *bool     `json:"is_pinned"`
	IsDraft     *bool     `json:"is_draft"`
	Labels      *[]string `json:"labels"`
	Priority    *string   `json:"priority"`
	ThreadID    *string   `json:"thread_id"`
}

type markReadRequest struct {
	Read *bool `json:"read"`
}

type moveEmailRequest struct {
	Folder string `json:"folder"`
}

// listEmailsHandler serves the filtered listing views. The filter query
// parameter selects starred, unread, or attachments; without it every
// record comes back.
func (s *Server) listEmailsHandler(w http.ResponseWriter, r *http.Request) {
	var records []types.EmailRecord
	switch filter := r.URL.Query().Get("filter"); filter {
	case "starred":
		records = s.store.GetStarredEmails()
	case "unread":
		records = s.store.GetUnreadEmails()
	case "attachments":
		records = s.store.GetEmailsWithAttachments()
	case "":
		records = s.store.GetAllEmails()
	default:
		writeError(w, "unknown filter: "+filter, http.StatusBadRequest)
		return
	}
	writeJSON(w, store.SummarizeAll(records), http.StatusOK)
}

func (s *Server) getEmailHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.store.GetEmail(mux.Vars(r)["id"])
	if !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	writeJSON(w, rec, http.StatusOK)
}

func (s *Server) createEmailHandler(w http.ResponseWriter, r *http.Request) {
	var req createEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	input := types.EmailRecord{
		From:     normalize.ParseAddress(req.From),
		Subject:  req.Subject,
		Body:     req.Body,
		IsHTML:   req.IsHTML,
		Folder:   req.Folder,
		Labels:   req.Labels,
		Priority: normalize.ParsePriority(req.Priority),
	}
	for _, addr := range req.To {
		input.To = append(input.To, normalize.ParseAddress(addr))
	}
	for _, addr := range req.Cc {
		input.CC = append(input.CC, normalize.ParseAddress(addr))
	}
	for _, addr := range req.Bcc {
		input.BCC = append(input.BCC, normalize.ParseAddress(addr))
	}
	rec := s.store.CreateEmail(input)
	writeJSON(w, rec, http.StatusCreated)
}

func (s *Server) updateEmailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetEmail(id); !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	var req updateEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	update := store.EmailUpdate{
		Subject:     req.Subject,
		Body:        req.Body,
		IsHTML:      req.IsHTML,
		IsRead:      req.IsRead,
		IsStarred:   req.IsStarred,
		IsImportant: req.IsImportant,
		IsPinned:    req.IsPinned,
		IsDraft:     req.IsDraft,
		Labels:      req.Labels,
		ThreadID:    req.ThreadID,
	}
	if req.Priority != nil {
		p := normalize.ParsePriority(*req.Priority)
		update.Priority = &p
	}
	s.store.UpdateEmail(id, update)
	rec, _ := s.store.GetEmail(id)
	writeJSON(w, rec, http.StatusOK)
}

func (s *Server) markReadHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetEmail(id); !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	read := true
	var req markReadRequest
	if err := decodeJSON(r, &req); err == nil && req.Read != nil {
		read = *req.Read
	}
	s.store.MarkAsRead(id, read)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleStarHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetEmail(id); !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	s.store.ToggleStar(id)
	rec, _ := s.store.GetEmail(id)
	writeJSON(w, rec, http.StatusOK)
}

func (s *Server) moveEmailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetEmail(id); !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	var req moveEmailRequest
	if err := decodeJSON(r, &req); err != nil || req.Folder == "" {
		writeError(w, "target folder is required", http.StatusBadRequest)
		return
	}
	if !s.store.FolderExists(req.Folder) {
		writeError(w, "folder not found", http.StatusNotFound)
		return
	}
	s.store.MoveToFolder(id, req.Folder)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) markSpamHandler(w http.ResponseWriter, r *http.Request) {
	s.emailAction(w, r, s.store.MarkAsSpam)
}

func (s *Server) archiveEmailHandler(w http.ResponseWriter, r *http.Request) {
	s.emailAction(w, r, s.store.ArchiveEmail)
}

func (s *Server) restoreEmailHandler(w http.ResponseWriter, r *http.Request) {
	s.emailAction(w, r, s.store.RestoreEmail)
}

func (s *Server) deleteEmailHandler(w http.ResponseWriter, r *http.Request) {
	s.emailAction(w, r, s.store.DeleteEmail)
}

func (s *Server) permanentDeleteHandler(w http.ResponseWriter, r *http.Request) {
	s.emailAction(w, r, s.store.PermanentlyDeleteEmail)
}

// emailAction runs a by-id store operation, answering 404 for unknown
// ids and 204 on success.
func (s *Server) emailAction(w http.ResponseWriter, r *http.Request, fn func(string)) {
	id := mux.Vars(r)["id"]
	if _, ok := s.store.GetEmail(id); !ok {
		writeError(w, "email not found", http.StatusNotFound)
		return
	}
	fn(id)
	w.WriteHeader(http.StatusNoContent)
}
