package record

import (
	"strings"
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Login button broken!!", "login-button-broken"},
		{"Fix CSS   overlap", "fix-css-overlap"},
		{"---already dashed---", "already-dashed"},
		{"!!!", ""},
		{"", ""},
		{"UPPER lower 123", "upper-lower-123"},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug_TruncatesBeforeSlugging(t *testing.T) {
	long := strings.Repeat("a", 39) + "!bbbb"
	got := Slug(long)
	// The 40th rune is "!", which strips to a trailing dash and then trims.
	if got != strings.Repeat("a", 39) {
		t.Errorf("Slug(long) = %q, want 39 a's", got)
	}
}

func TestNewID(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 15, 30, 0, time.Local)
	got := NewID(at, "Login button broken!!")
	want := "2024-03-01-101530-login-button-broken"
	if got != want {
		t.Errorf("NewID = %q, want %q", got, want)
	}
}

func TestNewID_EmptyDescription(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 15, 30, 0, time.Local)
	if got := NewID(at, "!!!"); got != "2024-03-01-101530" {
		t.Errorf("NewID with unsluggable description = %q", got)
	}
}

func TestFileNames(t *testing.T) {
	id := "2024-03-01-101530-x"
	if got := FileName(id); got != id+".md" {
		t.Errorf("FileName = %q", got)
	}
	if got := ImageName(id); got != id+".png" {
		t.Errorf("ImageName = %q", got)
	}
}
