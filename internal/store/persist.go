package store

import (
	"encoding/json"

	"github.com/sebenza/mailstore/pkg/types"
)

// load reads both persisted slots. Any read or parse failure is logged
// and the affected collection resets to empty; construction never
// fails because of bad persisted state. Dates round-trip through JSON
// as RFC 3339 strings and come back as time.Time values.
func (s *Store) load() {
	raw, err := s.backend.Get(emailsKey)
	switch {
	case err != nil:
		s.logger.WithError(err).Error("Failed to read persisted emails, starting empty")
	case raw != nil:
		var emails []*types.EmailRecord
		if err := json.Unmarshal(raw, &emails); err != nil {
			s.logger.WithError(err).Error("Failed to parse persisted emails, starting empty")
		} else {
			s.emails = emails
		}
	}

	raw, err = s.backend.Get(foldersKey)
	switch {
	case err != nil:
		s.logger.WithError(err).Error("Failed to read persisted folders, using defaults")
	case raw != nil:
		var folders []*types.Folder
		if err := json.Unmarshal(raw, &folders); err != nil {
			s.logger.WithError(err).Error("Failed to parse persisted folders, using defaults")
		} else {
			s.folders = folders
		}
	}
}

// save serializes the full record collection and folder list and
// overwrites both slots. A persistence failure is logged and never
// surfaces to the caller; the in-memory state stays authoritative.
// Callers hold the lock.
func (s *Store) save() {
	emails, err := json.Marshal(s.emails)
	if err != nil {
		s.logger.WithError(err).Error("Failed to serialize emails")
		return
	}
	if err := s.backend.Put(emailsKey, emails); err != nil {
		s.logger.WithError(err).Error("Failed to persist emails")
	}

	folders, err := json.Marshal(s.folders)
	if err != nil {
		s.logger.WithError(err).Error("Failed to serialize folders")
		return
	}
	if err := s.backend.Put(foldersKey, folders); err != nil {
		s.logger.WithError(err).Error("Failed to persist folders")
	}
}
