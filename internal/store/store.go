// Package store maintains the authoritative in-memory email record
// collection and folder metadata. Every mutating operation recomputes
// folder counts from the collection and writes a full snapshot through
// the storage backend before returning.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebenza/mailstore/internal/storage"
	"github.com/sebenza/mailstore/pkg/types"
)

// Persisted slot keys.
const (
	emailsKey  = "sebenza-emails"
	foldersKey = "sebenza-folders"
)

// Store owns the record collection and folder list. There is no
// external mutation path; callers go through the methods below.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *logrus.Logger

	emails  []*types.EmailRecord
	folders []*types.Folder
}

// New creates a store backed by the given storage backend. Persisted
// state is loaded immediately and folder counts are recomputed from the
// record collection, so stale or corrupted persisted counts never
// survive construction.
func New(backend storage.Backend, logger *logrus.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
	}
	s.load()
	if len(s.folders) == 0 {
		s.folders = systemFolders()
	}
	s.adoptOrphans()
	s.recomputeCounts()
	return s
}

// adoptOrphans refiles records pointing at folders the store does not
// know into the inbox. A corrupted folder slot can reset the folder
// list while the record slot still references custom folder ids.
func (s *Store) adoptOrphans() {
	for _, rec := range s.emails {
		if s.findFolder(rec.Folder) == nil {
			s.logger.WithField("folder", rec.Folder).
				WithField("id", rec.ID).
				Warn("Record references unknown folder, refiling to inbox")
			rec.Folder = string(types.FolderTypeInbox)
		}
	}
}

// GetEmail returns the record with the given id, or false if unknown.
func (s *Store) GetEmail(id string) (types.EmailRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec := s.find(id); rec != nil {
		return *rec, true
	}
	return types.EmailRecord{}, false
}

// GetEmailsForFolder returns all records whose folder field matches
// folderID, in collection order.
func (s *Store) GetEmailsForFolder(folderID string) []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(rec *types.EmailRecord) bool {
		return rec.Folder == folderID
	})
}

// GetAllEmails returns every record in collection order.
func (s *Store) GetAllEmails() []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(*types.EmailRecord) bool { return true })
}

// GetStarredEmails returns all starred records.
func (s *Store) GetStarredEmails() []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(rec *types.EmailRecord) bool {
		return rec.IsStarred
	})
}

// GetUnreadEmails returns all unread records.
func (s *Store) GetUnreadEmails() []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(rec *types.EmailRecord) bool {
		return !rec.IsRead
	})
}

// GetEmailsWithAttachments returns all records carrying attachments.
func (s *Store) GetEmailsWithAttachments() []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter(func(rec *types.EmailRecord) bool {
		return rec.HasAttachments
	})
}

// MarkAsRead sets the read flag on a record. Unknown ids are ignored.
func (s *Store) MarkAsRead(id string, read bool) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.IsRead = read
	})
}

// ToggleStar flips the starred flag on a record. Unknown ids are
// ignored.
func (s *Store) ToggleStar(id string) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.IsStarred = !rec.IsStarred
	})
}

// MoveToFolder reassigns a record to another folder. Unknown record ids
// and unknown target folders are both ignored; a record's folder always
// refers to a folder the store knows about.
func (s *Store) MoveToFolder(id, folderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findFolder(folderID) == nil {
		s.logger.WithField("folder", folderID).Debug("Unknown target folder, ignoring move")
		return
	}
	rec := s.find(id)
	if rec == nil {
		return
	}
	rec.Folder = folderID
	s.recomputeCounts()
	s.save()
}

// DeleteEmail logically deletes a record: it moves to trash and is
// flagged deleted, reversible via RestoreEmail.
func (s *Store) DeleteEmail(id string) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.Folder = string(types.FolderTypeTrash)
		rec.IsDeleted = true
	})
}

// PermanentlyDeleteEmail removes a record from the collection entirely.
// This is the only irreversible operation.
func (s *Store) PermanentlyDeleteEmail(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.emails {
		if rec.ID == id {
			s.emails = append(s.emails[:i], s.emails[i+1:]...)
			s.recomputeCounts()
			s.save()
			return
		}
	}
}

// RestoreEmail returns a logically deleted record to the inbox.
func (s *Store) RestoreEmail(id string) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.Folder = string(types.FolderTypeInbox)
		rec.IsDeleted = false
	})
}

// MarkAsSpam moves a record to the spam folder and flags it.
func (s *Store) MarkAsSpam(id string) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.Folder = string(types.FolderTypeSpam)
		rec.IsSpam = true
	})
}

// ArchiveEmail moves a record to the archive folder.
func (s *Store) ArchiveEmail(id string) {
	s.mutate(id, func(rec *types.EmailRecord) {
		rec.Folder = string(types.FolderTypeArchive)
	})
}

// CreateEmail appends a new record. The id and date are assigned here;
// missing folder and priority fall back to inbox/normal. The stored
// record is returned.
func (s *Store) CreateEmail(input types.EmailRecord) types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := input
	// Nanosecond resolution keeps ids unique for back-to-back creates.
	rec.ID = fmt.Sprintf("email-%d", time.Now().UnixNano())
	rec.Date = time.Now()
	if rec.Folder == "" || s.findFolder(rec.Folder) == nil {
		rec.Folder = string(types.FolderTypeInbox)
	}
	if rec.Priority == "" {
		rec.Priority = types.PriorityNormal
	}
	if len(rec.Attachments) > 0 {
		rec.HasAttachments = true
	}

	s.emails = append(s.emails, &rec)
	s.recomputeCounts()
	s.save()
	return rec
}

// EmailUpdate carries the fields UpdateEmail may change; nil fields are
// left untouched.
type EmailUpdate struct {
	Subject     *string
	Body        *string
	IsHTML      *bool
	IsRead      *bool
	IsStarred   *bool
	IsImportant *bool
	IsPinned    *bool
	IsDraft     *bool
	Labels      *[]string
	Priority    *types.Priority
	ThreadID    *string
}

// UpdateEmail shallow-merges the non-nil update fields into a record.
// Unknown ids are ignored.
func (s *Store) UpdateEmail(id string, update EmailUpdate) {
	s.mutate(id, func(rec *types.EmailRecord) {
		if update.Subject != nil {
			rec.Subject = *update.Subject
		}
		if update.Body != nil {
			rec.Body = *update.Body
		}
		if update.IsHTML != nil {
			rec.IsHTML = *update.IsHTML
		}
		if update.IsRead != nil {
			rec.IsRead = *update.IsRead
		}
		if update.IsStarred != nil {
			rec.IsStarred = *update.IsStarred
		}
		if update.IsImportant != nil {
			rec.IsImportant = *update.IsImportant
		}
		if update.IsPinned != nil {
			rec.IsPinned = *update.IsPinned
		}
		if update.IsDraft != nil {
			rec.IsDraft = *update.IsDraft
		}
		if update.Labels != nil {
			rec.Labels = *update.Labels
		}
		if update.Priority != nil {
			rec.Priority = *update.Priority
		}
		if update.ThreadID != nil {
			rec.ThreadID = *update.ThreadID
		}
	})
}

// mutate applies fn to the record with the given id, then recomputes
// counts and persists. Unknown ids are a silent no-op, matching the
// store's contract that by-id operations never fail.
func (s *Store) mutate(id string, fn func(*types.EmailRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.find(id)
	if rec == nil {
		s.logger.WithField("id", id).Debug("Email not found, ignoring")
		return
	}
	fn(rec)
	s.recomputeCounts()
	s.save()
}

// find returns the record with the given id, or nil. Callers hold the
// lock.
func (s *Store) find(id string) *types.EmailRecord {
	for _, rec := range s.emails {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// filter returns copies of records matching the predicate, in
// collection order. Callers hold the lock.
func (s *Store) filter(pred func(*types.EmailRecord) bool) []types.EmailRecord {
	var out []types.EmailRecord
	for _, rec := range s.emails {
		if pred(rec) {
			out = append(out, *rec)
		}
	}
	return out
}
