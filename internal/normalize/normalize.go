// Package normalize converts arbitrarily shaped external data into the
// canonical record types used by the store. Every function in this
// package is total: malformed input is absorbed into safe defaults and
// never produces an error, with the single exception of Record, which
// rejects input that is not an object at all.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sebenza/mailstore/pkg/types"
)

const (
	unknownName  = "Unknown"
	unknownEmail = "unknown@example.com"

	defaultContentType = "application/octet-stream"
)

// Key lookup tables, in priority order. External payloads vary in which
// key carries each field, so lookups walk these instead of branching
// inline.
var (
	addressNameKeys  = []string{"name", "displayName", "display_name"}
	addressEmailKeys = []string{"email", "address"}

	attachmentIDKeys   = []string{"id", "attachmentId", "attachment_id"}
	attachmentNameKeys = []string{"filename", "fileName", "file_name", "name"}
	attachmentTypeKeys = []string{"contentType", "content_type", "mimeType", "mime_type", "type"}
	attachmentSizeKeys = []string{"size", "fileSize", "file_size", "length"}

	recordIDKeys      = []string{"id", "messageId", "message_id"}
	recordFromKeys    = []string{"from", "sender"}
	recordSubjectKeys = []string{"subject", "title"}
	recordBodyKeys    = []string{"body", "bodyText", "body_text", "content", "text"}
	recordHTMLKeys    = []string{"bodyHtml", "body_html", "html"}
	recordDateKeys    = []string{"date", "sentAt", "sent_at", "receivedAt", "received_at", "timestamp"}
	recordFolderKeys  = []string{"folder", "folderId", "folder_id", "mailbox"}
	recordThreadKeys  = []string{"threadId", "thread_id"}
)

// ParseAddress coerces any input shape into a fully populated
// EmailAddress. Supported shapes: "Name <addr>" strings, bare address
// strings, and objects with varying key names. Anything else yields the
// unknown sentinel.
func ParseAddress(v any) types.EmailAddress {
	switch val := v.(type) {
	case string:
		return parseAddressString(val)
	case map[string]any:
		return parseAddressMap(val)
	case types.EmailAddress:
		return fillAddress(val)
	default:
		return types.EmailAddress{Name: unknownName, Email: unknownEmail, DisplayName: unknownName}
	}
}

func parseAddressString(s string) types.EmailAddress {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.EmailAddress{Name: unknownName, Email: unknownEmail, DisplayName: unknownName}
	}

	// "Name <email>" form.
	if start := strings.Index(s, "<"); start != -1 {
		if end := strings.Index(s, ">"); end > start {
			name := strings.TrimSpace(s[:start])
			email := strings.TrimSpace(s[start+1 : end])
			return fillAddress(types.EmailAddress{Name: name, Email: email, DisplayName: name})
		}
	}

	// A bare string is used for all three fields.
	return types.EmailAddress{Name: s, Email: s, DisplayName: s}
}

func parseAddressMap(m map[string]any) types.EmailAddress {
	addr := types.EmailAddress{
		Name:        stringField(m, addressNameKeys),
		Email:       stringField(m, addressEmailKeys),
		DisplayName: stringField(m, []string{"displayName", "display_name", "name"}),
	}
	if addr.Name == "" {
		addr.Name = stringField(m, addressEmailKeys)
	}
	return fillAddress(addr)
}

// fillAddress applies the sentinel fallbacks so no field is ever empty.
func fillAddress(addr types.EmailAddress) types.EmailAddress {
	if addr.Email == "" {
		addr.Email = unknownEmail
	}
	if addr.Name == "" {
		addr.Name = addr.Email
	}
	if addr.Name == unknownEmail {
		addr.Name = unknownName
	}
	if addr.DisplayName == "" {
		addr.DisplayName = addr.Name
	}
	return addr
}

// ParseAddressList accepts an array, a comma-delimited string, or a
// single address-shaped value, and returns normalized addresses. Absent
// or empty input yields an empty slice.
func ParseAddressList(v any) []types.EmailAddress {
	switch val := v.(type) {
	case nil:
		return []types.EmailAddress{}
	case []any:
		out := make([]types.EmailAddress, 0, len(val))
		for _, item := range val {
			out = append(out, ParseAddress(item))
		}
		return out
	case string:
		if strings.TrimSpace(val) == "" {
			return []types.EmailAddress{}
		}
		var out []types.EmailAddress
		for _, part := range strings.Split(val, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			out = append(out, ParseAddress(part))
		}
		return out
	default:
		return []types.EmailAddress{ParseAddress(v)}
	}
}

// ParseAttachments normalizes attachment metadata. Non-array input
// yields an empty slice; each element gets index-based defaults for
// missing fields.
func ParseAttachments(v any) []types.Attachment {
	items, ok := v.([]any)
	if !ok {
		return []types.Attachment{}
	}

	out := make([]types.Attachment, 0, len(items))
	for i, item := range items {
		att := types.Attachment{
			ID:          fmt.Sprintf("att-%d", i),
			Filename:    fmt.Sprintf("attachment-%d", i),
			ContentType: defaultContentType,
		}
		if m, ok := item.(map[string]any); ok {
			if id := stringField(m, attachmentIDKeys); id != "" {
				att.ID = id
			}
			if name := stringField(m, attachmentNameKeys); name != "" {
				att.Filename = name
			}
			if ct := stringField(m, attachmentTypeKeys); ct != "" {
				att.ContentType = ct
			}
			att.Size = intField(m, attachmentSizeKeys)
		}
		out = append(out, att)
	}
	return out
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts a time.Time, an ISO-style string, or an epoch
// number (seconds or milliseconds). Anything unparseable defaults to
// the current time.
func ParseDate(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		if !val.IsZero() {
			return val
		}
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(val)); err == nil {
				return t
			}
		}
	case float64:
		return epochTime(int64(val))
	case int64:
		return epochTime(val)
	case int:
		return epochTime(int64(val))
	}
	return time.Now()
}

func epochTime(n int64) time.Time {
	if n <= 0 {
		return time.Now()
	}
	// Values this large are epoch milliseconds.
	if n > 1e12 {
		return time.UnixMilli(n)
	}
	return time.Unix(n, 0)
}

// ParseLabels accepts an array of strings or a comma-delimited string.
func ParseLabels(v any) []string {
	switch val := v.(type) {
	case []any:
		var out []string
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(val, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// ParsePriority maps free-form priority values onto the three-level
// enum. Unrecognized input is normal priority.
func ParsePriority(v any) types.Priority {
	s, ok := v.(string)
	if !ok {
		return types.PriorityNormal
	}
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "high"), strings.Contains(s, "urgent"), strings.Contains(s, "important"):
		return types.PriorityHigh
	case strings.Contains(s, "low"):
		return types.PriorityLow
	default:
		return types.PriorityNormal
	}
}

// Record builds a complete EmailRecord from a loosely shaped value.
// The only rejected input is one that is not an object; every field
// inside an object is normalized with safe defaults.
func Record(v any) (*types.EmailRecord, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("record is not an object: %T", v)
	}

	rec := &types.EmailRecord{
		ID:          stringField(m, recordIDKeys),
		ThreadID:    stringField(m, recordThreadKeys),
		From:        ParseAddress(firstField(m, recordFromKeys)),
		To:          ParseAddressList(m["to"]),
		CC:          ParseAddressList(m["cc"]),
		BCC:         ParseAddressList(m["bcc"]),
		Subject:     stringField(m, recordSubjectKeys),
		Body:        stringField(m, recordBodyKeys),
		Date:        ParseDate(firstField(m, recordDateKeys)),
		Folder:      stringField(m, recordFolderKeys),
		Attachments: ParseAttachments(m["attachments"]),
		Labels:      ParseLabels(m["labels"]),
		Priority:    ParsePriority(m["priority"]),
	}

	if rec.ID == "" {
		rec.ID = "email-" + uuid.NewString()
	}
	if rec.Folder == "" {
		rec.Folder = string(types.FolderTypeInbox)
	}

	// HTML bodies may arrive under their own key.
	if html := stringField(m, recordHTMLKeys); html != "" && rec.Body == "" {
		rec.Body = html
		rec.IsHTML = true
	} else {
		rec.IsHTML = boolField(m, []string{"isHtml", "is_html", "html"})
	}

	rec.IsRead = boolField(m, []string{"isRead", "is_read", "read", "seen"})
	rec.IsStarred = boolField(m, []string{"isStarred", "is_starred", "starred", "flagged"})
	rec.IsImportant = boolField(m, []string{"isImportant", "is_important", "important"})
	rec.IsPinned = boolField(m, []string{"isPinned", "is_pinned", "pinned"})
	rec.IsDraft = boolField(m, []string{"isDraft", "is_draft", "draft"})
	rec.IsSent = boolField(m, []string{"isSent", "is_sent", "sent"})
	rec.IsDeleted = boolField(m, []string{"isDeleted", "is_deleted", "deleted"})
	rec.IsSpam = boolField(m, []string{"isSpam", "is_spam", "spam", "junk"})
	rec.HasAttachments = len(rec.Attachments) > 0 ||
		boolField(m, []string{"hasAttachments", "has_attachments"})

	return rec, nil
}

// stringField returns the first non-empty string found under the keys.
func stringField(m map[string]any, keys []string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstField returns the first present value under the keys.
func firstField(m map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

// intField returns the first numeric value found under the keys.
func intField(m map[string]any, keys []string) int64 {
	for _, key := range keys {
		switch n := m[key].(type) {
		case float64:
			return int64(n)
		case int:
			return int64(n)
		case int64:
			return n
		}
	}
	return 0
}

// boolField interprets boolean-ish values: booleans, "true"/"1"/"yes"
// strings, and non-zero numbers.
func boolField(m map[string]any, keys []string) bool {
	for _, key := range keys {
		switch b := m[key].(type) {
		case bool:
			return b
		case string:
			switch strings.ToLower(b) {
			case "true", "1", "yes":
				return true
			case "false", "0", "no":
				return false
			}
		case float64:
			return b != 0
		}
	}
	return false
}
