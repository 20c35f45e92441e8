package api

import (
	"io"
	"net/http"

	"github.com/sebenza/mailstore/internal/outbound"
)

type sendRequest struct {
	To       []string `json:"to"`
	Cc       []string `json:"cc"`
	Bcc      []string `json:"bcc"`
	Subject  string   `json:"subject"`
	BodyText string   `json:"body_text"`
	BodyHTML string   `json:"body_html"`
	Draft    bool     `json:"draft"`
}

type syncRequest struct {
	Account string `json:"account"`
	Folder  string `json:"folder"`
}

// sendHandler submits a message through the configured SMTP account
// and records it in the sent folder, or saves it as a draft when the
// draft flag is set.
func (s *Server) sendHandler(w http.ResponseWriter, r *http.Request) {
	if s.mailer == nil {
		writeError(w, "no sending account configured", http.StatusServiceUnavailable)
		return
	}
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	msg := &outbound.Message{
		To:       req.To,
		Cc:       req.Cc,
		Bcc:      req.Bcc,
		Subject:  req.Subject,
		BodyText: req.BodyText,
		BodyHTML: req.BodyHTML,
	}
	if req.Draft {
		rec := s.mailer.SaveDraft(msg)
		writeJSON(w, rec, http.StatusCreated)
		return
	}
	rec, err := s.mailer.Send(msg)
	if err != nil {
		s.logger.WithError(err).Error("Failed to send email")
		writeError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, rec, http.StatusCreated)
}

// syncHandler pulls messages from a configured IMAP account into the
// store. With no account named, the default account is used; with no
// folder named, every folder is synced.
func (s *Server) syncHandler(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil || !s.syncer.HasAccounts() {
		writeError(w, "no sync account configured", http.StatusServiceUnavailable)
		return
	}
	var req syncRequest
	if err := decodeJSON(r, &req); err != nil && err != io.EOF {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := s.syncer.SyncAccount(req.Account, req.Folder)
	if err != nil {
		s.logger.WithError(err).Error("Account sync failed")
		writeError(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, result, http.StatusOK)
}
