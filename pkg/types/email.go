package types

import "time"

// Priority is the urgency classification of an email record.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// FolderType identifies the role a folder plays in the mailbox.
type FolderType string

const (
	FolderTypeInbox   FolderType = "inbox"
	FolderTypeSent    FolderType = "sent"
	FolderTypeDrafts  FolderType = "drafts"
	FolderTypeStarred FolderType = "starred"
	FolderTypeArchive FolderType = "archive"
	FolderTypeSpam    FolderType = "spam"
	FolderTypeTrash   FolderType = "trash"
	FolderTypeCustom  FolderType = "custom"
)

// EmailAddress is a fully normalized address. After normalization the
// Email and DisplayName fields are never empty.
type EmailAddress struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Attachment describes a file attached to an email record.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// EmailRecord represents an email message held by the store.
type EmailRecord struct {
	ID             string         `json:"id"`
	ThreadID       string         `json:"thread_id,omitempty"`
	From           EmailAddress   `json:"from"`
	To             []EmailAddress `json:"to"`
	CC             []EmailAddress `json:"cc,omitempty"`
	BCC            []EmailAddress `json:"bcc,omitempty"`
	Subject        string         `json:"subject"`
	Body           string         `json:"body"`
	IsHTML         bool           `json:"is_html"`
	Date           time.Time      `json:"date"`
	Folder         string         `json:"folder"`
	IsRead         bool           `json:"is_read"`
	IsStarred      bool           `json:"is_starred"`
	IsImportant    bool           `json:"is_important"`
	IsPinned       bool           `json:"is_pinned"`
	IsDraft        bool           `json:"is_draft"`
	IsSent         bool           `json:"is_sent"`
	IsDeleted      bool           `json:"is_deleted"`
	IsSpam         bool           `json:"is_spam"`
	HasAttachments bool           `json:"has_attachments"`
	Attachments    []Attachment   `json:"attachments,omitempty"`
	Labels         []string       `json:"labels,omitempty"`
	Priority       Priority       `json:"priority"`
}

// EmailSummary is a trimmed view of an email record for listings and
// search results.
type EmailSummary struct {
	ID             string       `json:"id"`
	Folder         string       `json:"folder"`
	Subject        string       `json:"subject"`
	From           EmailAddress `json:"from"`
	Date           time.Time    `json:"date"`
	Snippet        string       `json:"snippet"`
	IsRead         bool         `json:"is_read"`
	IsStarred      bool         `json:"is_starred"`
	HasAttachments bool         `json:"has_attachments"`
}

// FolderPermissions describes what operations a folder allows.
type FolderPermissions struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// Folder represents an email folder/mailbox. UnreadCount and TotalCount
// are derived from the record collection and recomputed after every
// mutation; they are never authoritative on their own.
type Folder struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Type        FolderType        `json:"type"`
	UnreadCount int               `json:"unread_count"`
	TotalCount  int               `json:"total_count"`
	IsSystem    bool              `json:"is_system"`
	Path        string            `json:"path"`
	SyncEnabled bool              `json:"sync_enabled"`
	Permissions FolderPermissions `json:"permissions"`
}
