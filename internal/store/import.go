package store

import (
	"encoding/json"

	"github.com/sebenza/mailstore/internal/normalize"
	"github.com/sebenza/mailstore/pkg/types"
)

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}

// ImportEmails bulk-ingests loosely shaped records. Each record is
// normalized independently: one malformed record is counted as failed
// and never aborts the batch. Records arriving with a folder the store
// does not know are filed into the inbox. Counts are recomputed and
// the snapshot persisted once per batch, not per record.
func (s *Store) ImportEmails(raw []any) ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ImportResult
	for _, item := range raw {
		rec, err := normalize.Record(item)
		if err != nil {
			result.Failed++
			s.logger.WithError(err).Debug("Skipping malformed import record")
			continue
		}
		if s.findFolder(rec.Folder) == nil {
			rec.Folder = string(types.FolderTypeInbox)
		}
		s.emails = append(s.emails, rec)
		result.Imported++
	}

	s.recomputeCounts()
	s.save()

	s.logger.WithField("imported", result.Imported).
		WithField("failed", result.Failed).
		Info("Imported emails")
	return result
}

// ImportJSON ingests a payload of the form {"emails": [...]}. A
// payload that does not match that shape yields a zero result, not an
// error.
func (s *Store) ImportJSON(data []byte) ImportResult {
	var payload struct {
		Emails []any `json:"emails"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.WithError(err).Warn("Import payload is not valid JSON")
		return ImportResult{}
	}
	if payload.Emails == nil {
		return ImportResult{}
	}
	return s.ImportEmails(payload.Emails)
}
