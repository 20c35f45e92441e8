package store

import (
	"testing"
)

func TestImportIsolatesMalformedRecords(t *testing.T) {
	s := newTestStore(t)

	raw := []any{
		map[string]any{"subject": "good one", "from": "a@co.com"},
		"not an object",
		map[string]any{"subject": "good two"},
		42,
		nil,
		map[string]any{},
	}

	result := s.ImportEmails(raw)
	if result.Imported != 3 {
		t.Errorf("Expected 3 imported, got %d", result.Imported)
	}
	if result.Failed != 3 {
		t.Errorf("Expected 3 failed, got %d", result.Failed)
	}
	if got := len(s.GetEmailsForFolder("inbox")); got != 3 {
		t.Errorf("Expected collection to grow by 3, got %d in inbox", got)
	}
	checkCountInvariant(t, s)
}

func TestImportRemapsUnknownFolder(t *testing.T) {
	s := newTestStore(t)

	result := s.ImportEmails([]any{
		map[string]any{"id": "m1", "subject": "odd home", "folder": "nonexistent"},
		map[string]any{"id": "m2", "subject": "known home", "folder": "archive"},
	})
	if result.Imported != 2 {
		t.Fatalf("Expected 2 imported, got %+v", result)
	}

	rec, _ := s.GetEmail("m1")
	if rec.Folder != "inbox" {
		t.Errorf("Expected unknown folder remapped to inbox, got %s", rec.Folder)
	}
	rec, _ = s.GetEmail("m2")
	if rec.Folder != "archive" {
		t.Errorf("Expected archive kept, got %s", rec.Folder)
	}
	checkCountInvariant(t, s)
}

func TestImportJSON(t *testing.T) {
	s := newTestStore(t)

	payload := `{"emails": [
		{"subject": "from payload", "from": "Alice <alice@co.com>", "isRead": true},
		{"subject": "second"}
	]}`
	result := s.ImportJSON([]byte(payload))
	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("Expected 2/0, got %+v", result)
	}

	got := s.SearchEmails("from payload", "")
	if len(got) != 1 || !got[0].IsRead {
		t.Errorf("Imported record not normalized as expected: %+v", got)
	}
}

func TestImportJSONShapeMismatch(t *testing.T) {
	s := newTestStore(t)

	for _, payload := range []string{
		`{"messages": []}`,
		`[]`,
		`"just a string"`,
		`{invalid json`,
	} {
		result := s.ImportJSON([]byte(payload))
		if result.Imported != 0 || result.Failed != 0 {
			t.Errorf("Expected zero result for %q, got %+v", payload, result)
		}
	}

	if got := len(s.GetEmailsForFolder("inbox")); got != 0 {
		t.Errorf("Expected empty inbox after mismatched payloads, got %d", got)
	}
}

func TestImportPersistsOnce(t *testing.T) {
	backend := &countingBackend{}
	s := New(backend, testLogger())
	before := backend.puts

	s.ImportEmails([]any{
		map[string]any{"subject": "a"},
		map[string]any{"subject": "b"},
		map[string]any{"subject": "c"},
	})

	// One snapshot per batch: both slots written once each.
	if backend.puts-before != 2 {
		t.Errorf("Expected 2 slot writes for the batch, got %d", backend.puts-before)
	}
}

// countingBackend counts Put calls to observe persistence batching.
type countingBackend struct {
	puts int
	data map[string][]byte
}

func (c *countingBackend) Get(key string) ([]byte, error) {
	if c.data == nil {
		return nil, nil
	}
	return c.data[key], nil
}

func (c *countingBackend) Put(key string, value []byte) error {
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = value
	c.puts++
	return nil
}

func (c *countingBackend) Close() error { return nil }
