package imapsource

import (
	"testing"

	"github.com/emersion/go-imap"
)

func TestStoreFolderID(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"INBOX", "inbox"},
		{"Sent", "sent"},
		{"Sent Items", "sent"},
		{"[Gmail]/Sent Mail", "sent"},
		{"Drafts", "drafts"},
		{"Junk", "spam"},
		{"Spam", "spam"},
		{"Trash", "trash"},
		{"Deleted Items", "trash"},
		{"Archive", "archive"},
		{"Some/Project", "inbox"},
	}
	for _, test := range tests {
		if got := StoreFolderID(test.remote); got != test.want {
			t.Errorf("StoreFolderID(%q) = %q, want %q", test.remote, got, test.want)
		}
	}
}

func TestHasFlag(t *testing.T) {
	flags := []string{imap.SeenFlag, imap.FlaggedFlag}
	if !hasFlag(flags, imap.SeenFlag) {
		t.Error("Expected seen flag to be detected")
	}
	if hasFlag(flags, imap.DraftFlag) {
		t.Error("Did not expect draft flag")
	}
	if hasFlag(nil, imap.SeenFlag) {
		t.Error("Empty flag set should match nothing")
	}
}
