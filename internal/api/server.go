// Package api exposes the store's operations over JSON/HTTP for the
// office-suite frontend.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/config"
	"github.com/sebenza/mailstore/internal/imapsource"
	"github.com/sebenza/mailstore/internal/outbound"
	"github.com/sebenza/mailstore/internal/store"
)

// Server serves the mailstore HTTP API.
type Server struct {
	config *config.Config
	store  *store.Store
	syncer *imapsource.Syncer // nil when no IMAP accounts are configured
	mailer *outbound.Mailer   // nil when no SMTP account is configured
	logger *logrus.Logger
	router *mux.Router
}

// NewServer wires the API routes. syncer and mailer may be nil; the
// corresponding endpoints then answer 503.
func NewServer(cfg *config.Config, st *store.Store, syncer *imapsource.Syncer, mailer *outbound.Mailer, logger *logrus.Logger) *Server {
	s := &Server{
		config: cfg,
		store:  st,
		syncer: syncer,
		mailer: mailer,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]bool{"ok": true}, http.StatusOK)
	})

	api.HandleFunc("/folders", s.listFoldersHandler).Methods("GET")
	api.HandleFunc("/folders", s.createFolderHandler).Methods("POST")
	api.HandleFunc("/folders/{id}", s.deleteFolderHandler).Methods("DELETE")
	api.HandleFunc("/folders/{id}/emails", s.listFolderEmailsHandler).Methods("GET")

	api.HandleFunc("/emails", s.listEmailsHandler).Methods("GET")
	api.HandleFunc("/emails", s.createEmailHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/permanent", s.permanentDeleteHandler).Methods("DELETE")
	api.HandleFunc("/emails/{id}", s.getEmailHandler).Methods("GET")
	api.HandleFunc("/emails/{id}", s.updateEmailHandler).Methods("PATCH")
	api.HandleFunc("/emails/{id}", s.deleteEmailHandler).Methods("DELETE")
	api.HandleFunc("/emails/{id}/read", s.markReadHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/star", s.toggleStarHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/move", s.moveEmailHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/spam", s.markSpamHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/archive", s.archiveEmailHandler).Methods("POST")
	api.HandleFunc("/emails/{id}/restore", s.restoreEmailHandler).Methods("POST")

	api.HandleFunc("/search", s.searchHandler).Methods("GET")
	api.HandleFunc("/import", s.importHandler).Methods("POST")
	api.HandleFunc("/send", s.sendHandler).Methods("POST")
	api.HandleFunc("/sync", s.syncHandler).Methods("POST")
}

// Handler returns the CORS-wrapped root handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// ListenAndServe runs the HTTP server until it fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Handler:      s.Handler(),
		Addr:         s.config.HTTPAddr,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	s.logger.WithField("addr", s.config.HTTPAddr).Info("Starting HTTP server")
	return srv.ListenAndServe()
}
