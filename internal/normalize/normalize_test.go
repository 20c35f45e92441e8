package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebenza/mailstore/pkg/types"
)

func TestParseAddressForms(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  types.EmailAddress
	}{
		{
			name:  "name and email string",
			input: "Alice Smith <alice@co.com>",
			want:  types.EmailAddress{Name: "Alice Smith", Email: "alice@co.com", DisplayName: "Alice Smith"},
		},
		{
			name:  "bare string",
			input: "bob@co.com",
			want:  types.EmailAddress{Name: "bob@co.com", Email: "bob@co.com", DisplayName: "bob@co.com"},
		},
		{
			name:  "angle brackets without name",
			input: "<carol@co.com>",
			want:  types.EmailAddress{Name: "carol@co.com", Email: "carol@co.com", DisplayName: "carol@co.com"},
		},
		{
			name:  "object with name and email",
			input: map[string]any{"name": "Dan", "email": "dan@co.com"},
			want:  types.EmailAddress{Name: "Dan", Email: "dan@co.com", DisplayName: "Dan"},
		},
		{
			name:  "object with address key",
			input: map[string]any{"displayName": "Eve", "address": "eve@co.com"},
			want:  types.EmailAddress{Name: "Eve", Email: "eve@co.com", DisplayName: "Eve"},
		},
		{
			name:  "nil input",
			input: nil,
			want:  types.EmailAddress{Name: "Unknown", Email: "unknown@example.com", DisplayName: "Unknown"},
		},
		{
			name:  "empty object",
			input: map[string]any{},
			want:  types.EmailAddress{Name: "Unknown", Email: "unknown@example.com", DisplayName: "Unknown"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ParseAddress(test.input)
			if got != test.want {
				t.Errorf("ParseAddress(%v) = %+v, want %+v", test.input, got, test.want)
			}
		})
	}
}

func TestParseAddressNeverEmpty(t *testing.T) {
	inputs := []any{
		nil, "", 42, true, []any{"nested"},
		map[string]any{"email": ""},
		map[string]any{"name": 7},
	}
	for _, input := range inputs {
		addr := ParseAddress(input)
		if addr.Email == "" || addr.DisplayName == "" || addr.Name == "" {
			t.Errorf("ParseAddress(%v) returned empty field: %+v", input, addr)
		}
	}
}

func TestParseAddressList(t *testing.T) {
	got := ParseAddressList([]any{"a@co.com", map[string]any{"email": "b@co.com"}})
	if len(got) != 2 {
		t.Fatalf("Expected 2 addresses, got %d", len(got))
	}
	if got[0].Email != "a@co.com" || got[1].Email != "b@co.com" {
		t.Errorf("Unexpected addresses: %+v", got)
	}

	got = ParseAddressList("x@co.com, y@co.com")
	if len(got) != 2 {
		t.Fatalf("Expected 2 addresses from comma string, got %d", len(got))
	}

	got = ParseAddressList(nil)
	if len(got) != 0 {
		t.Errorf("Expected empty list for nil input, got %d entries", len(got))
	}

	got = ParseAddressList("single@co.com")
	if len(got) != 1 || got[0].Email != "single@co.com" {
		t.Errorf("Expected single wrapped address, got %+v", got)
	}
}

func TestParseAttachments(t *testing.T) {
	got := ParseAttachments([]any{
		map[string]any{"filename": "report.pdf", "contentType": "application/pdf", "size": float64(2048)},
		map[string]any{},
		"not an object",
	})
	if len(got) != 3 {
		t.Fatalf("Expected 3 attachments, got %d", len(got))
	}
	if got[0].Filename != "report.pdf" || got[0].ContentType != "application/pdf" || got[0].Size != 2048 {
		t.Errorf("Unexpected first attachment: %+v", got[0])
	}
	if got[1].ID != "att-1" || got[1].Filename != "attachment-1" {
		t.Errorf("Expected index defaults for empty object, got %+v", got[1])
	}
	if got[2].ContentType != "application/octet-stream" || got[2].Size != 0 {
		t.Errorf("Expected full defaults for non-object element, got %+v", got[2])
	}

	if len(ParseAttachments("nope")) != 0 {
		t.Error("Expected empty slice for non-array input")
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	got := ParseDate("2024-03-15T10:30:00Z")
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	got = ParseDate(float64(want.UnixMilli()))
	if !got.Equal(want) {
		t.Errorf("Expected %v from epoch millis, got %v", want, got)
	}

	got = ParseDate(float64(want.Unix()))
	if !got.Equal(want) {
		t.Errorf("Expected %v from epoch seconds, got %v", want, got)
	}

	// Garbage defaults to roughly now.
	before := time.Now()
	got = ParseDate("not a date")
	if got.Before(before.Add(-time.Minute)) {
		t.Errorf("Expected current time default, got %v", got)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input any
		want  types.Priority
	}{
		{"high", types.PriorityHigh},
		{"URGENT", types.PriorityHigh},
		{"important stuff", types.PriorityHigh},
		{"low", types.PriorityLow},
		{"normal", types.PriorityNormal},
		{"whatever", types.PriorityNormal},
		{nil, types.PriorityNormal},
		{3, types.PriorityNormal},
	}
	for _, test := range tests {
		if got := ParsePriority(test.input); got != test.want {
			t.Errorf("ParsePriority(%v) = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseLabels(t *testing.T) {
	got := ParseLabels([]any{"work", " personal ", 5})
	if len(got) != 2 || got[0] != "work" || got[1] != "personal" {
		t.Errorf("Unexpected labels from array: %v", got)
	}

	got = ParseLabels("a, b,,c")
	if len(got) != 3 {
		t.Errorf("Expected 3 labels from comma string, got %v", got)
	}
}

func TestRecordFromLooseJSON(t *testing.T) {
	payload := `{
		"messageId": "msg-42",
		"from": "Alice <alice@co.com>",
		"to": "bob@co.com, carol@co.com",
		"subject": "Quarterly Report",
		"body_text": "Numbers attached.",
		"date": "2024-03-15T10:30:00Z",
		"is_read": "yes",
		"attachments": [{"name": "q1.xlsx", "size": 512}],
		"priority": "urgent",
		"labels": "finance,reports"
	}`
	var raw any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatal(err)
	}

	rec, err := Record(raw)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.ID != "msg-42" {
		t.Errorf("Expected id msg-42, got %s", rec.ID)
	}
	if rec.From.Email != "alice@co.com" || rec.From.Name != "Alice" {
		t.Errorf("Unexpected from: %+v", rec.From)
	}
	if len(rec.To) != 2 {
		t.Errorf("Expected 2 recipients, got %d", len(rec.To))
	}
	if !rec.IsRead {
		t.Error("Expected is_read to be interpreted as true")
	}
	if !rec.HasAttachments || len(rec.Attachments) != 1 {
		t.Errorf("Expected one attachment, got %+v", rec.Attachments)
	}
	if rec.Attachments[0].Filename != "q1.xlsx" || rec.Attachments[0].Size != 512 {
		t.Errorf("Unexpected attachment: %+v", rec.Attachments[0])
	}
	if rec.Priority != types.PriorityHigh {
		t.Errorf("Expected high priority, got %s", rec.Priority)
	}
	if rec.Folder != "inbox" {
		t.Errorf("Expected inbox default folder, got %s", rec.Folder)
	}
	if len(rec.Labels) != 2 {
		t.Errorf("Expected 2 labels, got %v", rec.Labels)
	}
}

func TestRecordDefaults(t *testing.T) {
	rec, err := Record(map[string]any{})
	if err != nil {
		t.Fatalf("Record failed on empty object: %v", err)
	}
	if rec.ID == "" {
		t.Error("Expected generated id")
	}
	if rec.Folder != "inbox" {
		t.Errorf("Expected inbox folder, got %s", rec.Folder)
	}
	if rec.From.Email != "unknown@example.com" {
		t.Errorf("Expected sentinel sender, got %+v", rec.From)
	}
	if rec.Priority != types.PriorityNormal {
		t.Errorf("Expected normal priority, got %s", rec.Priority)
	}
	if rec.Date.IsZero() {
		t.Error("Expected non-zero date")
	}
}

func TestRecordRejectsNonObject(t *testing.T) {
	for _, input := range []any{nil, "string", 42, []any{"a"}} {
		if _, err := Record(input); err == nil {
			t.Errorf("Expected error for %v", input)
		}
	}
}

func TestRecordHTMLBody(t *testing.T) {
	rec, err := Record(map[string]any{
		"bodyHtml": "<p>Hello</p>",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.IsHTML || rec.Body != "<p>Hello</p>" {
		t.Errorf("Expected HTML body, got isHTML=%v body=%q", rec.IsHTML, rec.Body)
	}
}
