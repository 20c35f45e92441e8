package store

import (
	"strings"
	"unicode/utf8"

	"github.com/k3a/html2text"

	"github.com/sebenza/mailstore/pkg/types"
)

// SearchEmails returns records whose subject, body, sender, or any
// recipient contains query, case-insensitively. HTML bodies are
// reduced to text before matching. When folderID is non-empty only
// that folder is searched. Matches come back in collection order;
// there is no ranking.
func (s *Store) SearchEmails(query, folderID string) []types.EmailRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(func(rec *types.EmailRecord) bool {
		if folderID != "" && rec.Folder != folderID {
			return false
		}
		return matchesQuery(rec, q)
	})
}

func matchesQuery(rec *types.EmailRecord, q string) bool {
	if strings.Contains(strings.ToLower(rec.Subject), q) {
		return true
	}
	if strings.Contains(strings.ToLower(bodyText(rec)), q) {
		return true
	}
	if addressMatches(rec.From, q) {
		return true
	}
	for _, group := range [][]types.EmailAddress{rec.To, rec.CC, rec.BCC} {
		for _, addr := range group {
			if addressMatches(addr, q) {
				return true
			}
		}
	}
	return false
}

func addressMatches(addr types.EmailAddress, q string) bool {
	return strings.Contains(strings.ToLower(addr.Name), q) ||
		strings.Contains(strings.ToLower(addr.Email), q)
}

// bodyText returns the record body as plain text for matching and
// snippets.
func bodyText(rec *types.EmailRecord) string {
	if rec.IsHTML {
		return html2text.HTML2Text(rec.Body)
	}
	return rec.Body
}

const snippetLength = 200

// Summarize converts a record into its listing summary, with a plain
// text snippet of the body. Truncation counts runes so a multi-byte
// body is never cut mid-character.
func Summarize(rec types.EmailRecord) types.EmailSummary {
	snippet := strings.TrimSpace(bodyText(&rec))
	if utf8.RuneCountInString(snippet) > snippetLength {
		runes := []rune(snippet)
		snippet = string(runes[:snippetLength]) + "..."
	}
	return types.EmailSummary{
		ID:             rec.ID,
		Folder:         rec.Folder,
		Subject:        rec.Subject,
		From:           rec.From,
		Date:           rec.Date,
		Snippet:        snippet,
		IsRead:         rec.IsRead,
		IsStarred:      rec.IsStarred,
		HasAttachments: rec.HasAttachments,
	}
}

// SummarizeAll maps Summarize over a record list.
func SummarizeAll(records []types.EmailRecord) []types.EmailSummary {
	out := make([]types.EmailSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, Summarize(rec))
	}
	return out
}
