package store

import (
	"fmt"
	"time"

	"github.com/sebenza/mailstore/pkg/types"
)

// systemFolders builds the fixed folder set a fresh mailbox starts
// with. System folders cannot be deleted.
func systemFolders() []*types.Folder {
	system := []struct {
		folderType types.FolderType
		name       string
		canDelete  bool
	}{
		{types.FolderTypeInbox, "Inbox", false},
		{types.FolderTypeSent, "Sent", false},
		{types.FolderTypeDrafts, "Drafts", false},
		{types.FolderTypeStarred, "Starred", false},
		{types.FolderTypeArchive, "Archive", true},
		{types.FolderTypeSpam, "Spam", true},
		{types.FolderTypeTrash, "Trash", true},
	}

	folders := make([]*types.Folder, 0, len(system))
	for _, def := range system {
		folders = append(folders, &types.Folder{
			ID:          string(def.folderType),
			Name:        def.name,
			Type:        def.folderType,
			IsSystem:    true,
			Path:        "/" + string(def.folderType),
			SyncEnabled: true,
			Permissions: types.FolderPermissions{Read: true, Write: true, Delete: def.canDelete},
		})
	}
	return folders
}

// GetFolders returns the folder list with current derived counts.
func (s *Store) GetFolders() []types.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Folder, 0, len(s.folders))
	for _, folder := range s.folders {
		out = append(out, *folder)
	}
	return out
}

// FolderExists reports whether a folder with the given id is known.
func (s *Store) FolderExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findFolder(id) != nil
}

// CreateFolder adds a custom folder and returns it. The id is derived
// from the creation time so it never collides with system folder ids.
func (s *Store) CreateFolder(name string) types.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder := &types.Folder{
		ID:          fmt.Sprintf("folder-%d", time.Now().UnixNano()),
		Name:        name,
		Type:        types.FolderTypeCustom,
		Path:        "/" + name,
		SyncEnabled: false,
		Permissions: types.FolderPermissions{Read: true, Write: true, Delete: true},
	}
	s.folders = append(s.folders, folder)
	s.recomputeCounts()
	s.save()
	return *folder
}

// DeleteFolder removes a custom folder. Records still assigned to it
// move back to the inbox so no record ever points at a folder the
// store no longer knows. System folders and unknown ids are ignored.
func (s *Store) DeleteFolder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, folder := range s.folders {
		if folder.ID != id {
			continue
		}
		if folder.IsSystem {
			s.logger.WithField("folder", id).Debug("Refusing to delete system folder")
			return
		}
		s.folders = append(s.folders[:i], s.folders[i+1:]...)
		for _, rec := range s.emails {
			if rec.Folder == id {
				rec.Folder = string(types.FolderTypeInbox)
			}
		}
		s.recomputeCounts()
		s.save()
		return
	}
}

// findFolder returns the folder with the given id, or nil. Callers
// hold the lock.
func (s *Store) findFolder(id string) *types.Folder {
	for _, folder := range s.folders {
		if folder.ID == id {
			return folder
		}
	}
	return nil
}

// recomputeCounts re-derives every folder's total and unread counters
// from the record collection. This runs after every mutation; the
// persisted counters are never trusted as ground truth. Callers hold
// the lock.
func (s *Store) recomputeCounts() {
	for _, folder := range s.folders {
		total := 0
		unread := 0
		for _, rec := range s.emails {
			if rec.Folder != folder.ID {
				continue
			}
			total++
			if !rec.IsRead {
				unread++
			}
		}
		folder.TotalCount = total
		folder.UnreadCount = unread
	}
}
