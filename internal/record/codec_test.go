package record

import (
	"strings"
	"testing"
	"time"
)

var captureTime = time.Date(2024, 3, 1, 10, 15, 30, 0, time.UTC)

func TestEncode_FieldOrder(t *testing.T) {
	text := Encode(EncodeInput{
		Title:      "Login button broken!!",
		CapturedAt: captureTime,
		Tags:       []string{"ui", "urgent"},
		ImageName:  "2024-03-01-101530-login-button-broken.png",
		Details:    "Clicking does nothing.",
	})

	want := []string{
		"# Login button broken!!",
		"",
		"**Captured:** 2024-03-01T10:15:30.000Z",
		"**Status:** open",
		"**Tags:** ui, urgent",
		"",
		"![screenshot](2024-03-01-101530-login-button-broken.png)",
		"",
		"## Details",
		"",
		"Clicking does nothing.",
		"",
		"---",
		"",
		"",
	}
	if got := strings.Join(want, "\n"); text != got {
		t.Errorf("Encode output mismatch:\ngot:\n%s\nwant:\n%s", text, got)
	}
}

func TestEncode_Defaults(t *testing.T) {
	text := Encode(EncodeInput{CapturedAt: captureTime})

	if !strings.HasPrefix(text, "# Untitled capture\n") {
		t.Errorf("empty title should default to %q, got:\n%s", "Untitled capture", text)
	}
	if !strings.Contains(text, "**Status:** open") {
		t.Error("empty status should default to open")
	}
	if strings.Contains(text, "**Tags:**") {
		t.Error("tags line should be omitted when no tags")
	}
	if strings.Contains(text, "![screenshot]") {
		t.Error("image line should be omitted when no image")
	}
	if strings.Contains(text, "## Details") {
		t.Error("details section should be omitted when empty")
	}
	if !strings.HasSuffix(text, "\n---\n\n") {
		t.Errorf("record should end with the separator trailer, got %q", text)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		status  string
		tags    []string
		details string
	}{
		{"full", "Broken header", "resolved", []string{"ui", "css"}, "It overlaps the nav.\n\nOnly on mobile."},
		{"no tags", "Crash on save", "open", nil, "Stack trace attached."},
		{"no details", "Typo in footer", "open", []string{"copy"}, ""},
		{"odd status", "Weird one", "wontfix", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := Encode(EncodeInput{
				Title:      tt.title,
				CapturedAt: captureTime,
				Status:     tt.status,
				Tags:       tt.tags,
				Details:    tt.details,
			})
			decoded := Decode(text)

			if decoded.Title != tt.title {
				t.Errorf("Title = %q, want %q", decoded.Title, tt.title)
			}
			if decoded.Status != tt.status {
				t.Errorf("Status = %q, want %q", decoded.Status, tt.status)
			}
			if len(decoded.Tags) != len(tt.tags) {
				t.Fatalf("Tags = %v, want %v", decoded.Tags, tt.tags)
			}
			for i := range tt.tags {
				if decoded.Tags[i] != tt.tags[i] {
					t.Errorf("Tags[%d] = %q, want %q", i, decoded.Tags[i], tt.tags[i])
				}
			}
			if tt.details == "" {
				if decoded.Details != nil {
					t.Errorf("Details = %q, want nil", *decoded.Details)
				}
			} else if decoded.Details == nil || *decoded.Details != tt.details {
				t.Errorf("Details = %v, want %q", decoded.Details, tt.details)
			}
			if decoded.Captured == nil || *decoded.Captured != "2024-03-01T10:15:30.000Z" {
				t.Errorf("Captured = %v, want the encoded timestamp", decoded.Captured)
			}
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	decoded := Decode("just some random text\nwith no markers at all\n")

	if decoded.Title != "Untitled" {
		t.Errorf("Title = %q, want %q", decoded.Title, "Untitled")
	}
	if decoded.Status != StatusOpen {
		t.Errorf("Status = %q, want %q", decoded.Status, StatusOpen)
	}
	if decoded.Captured != nil {
		t.Errorf("Captured = %v, want nil", decoded.Captured)
	}
	if decoded.Tags == nil || len(decoded.Tags) != 0 {
		t.Errorf("Tags = %v, want empty slice", decoded.Tags)
	}
	if decoded.Details != nil {
		t.Errorf("Details = %v, want nil", decoded.Details)
	}
}

func TestDecode_EmptyText(t *testing.T) {
	decoded := Decode("")
	if decoded.Title != "Untitled" || decoded.Status != StatusOpen {
		t.Errorf("empty text should decode to defaults, got %+v", decoded)
	}
}

func TestDecode_TagsTrimmed(t *testing.T) {
	decoded := Decode("# X\n\n**Tags:**  ui ,  urgent , \n")
	if len(decoded.Tags) != 2 || decoded.Tags[0] != "ui" || decoded.Tags[1] != "urgent" {
		t.Errorf("Tags = %v, want [ui urgent]", decoded.Tags)
	}
}

func TestDecode_StatusLowercased(t *testing.T) {
	decoded := Decode("# X\n\n**Status:** RESOLVED\n")
	if decoded.Status != StatusResolved {
		t.Errorf("Status = %q, want %q", decoded.Status, StatusResolved)
	}
}

func TestSetStatus_Surgical(t *testing.T) {
	details := "The docs say to write **Status:** open in the report."
	text := Encode(EncodeInput{
		Title:      "Report bug",
		CapturedAt: captureTime,
		Details:    details,
	})

	updated := SetStatus(text, StatusResolved)

	decoded := Decode(updated)
	if decoded.Status != StatusResolved {
		t.Errorf("Status = %q, want %q", decoded.Status, StatusResolved)
	}
	if decoded.Details == nil || *decoded.Details != details {
		t.Errorf("Details changed by SetStatus: %v", decoded.Details)
	}
	if !strings.Contains(updated, "**Status:** open in the report") {
		t.Error("body occurrence of the status marker was rewritten")
	}
}

func TestSetStatus_Idempotent(t *testing.T) {
	text := Encode(EncodeInput{Title: "X", CapturedAt: captureTime})

	once := SetStatus(text, StatusResolved)
	twice := SetStatus(once, StatusResolved)
	if once != twice {
		t.Errorf("SetStatus is not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}

func TestSetStatus_NoStatusLine(t *testing.T) {
	text := "# Hand-written note\n\nNo metadata here.\n"
	if got := SetStatus(text, StatusResolved); got != text {
		t.Errorf("text without a status line should be returned unchanged, got:\n%s", got)
	}
}

func TestSetStatus_ArbitraryValue(t *testing.T) {
	text := Encode(EncodeInput{Title: "X", CapturedAt: captureTime})
	updated := SetStatus(text, "wontfix")
	if Decode(updated).Status != "wontfix" {
		t.Error("arbitrary status strings should be stored verbatim")
	}
}
