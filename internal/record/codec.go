package record

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// titlePattern matches the first markdown heading line (multiline, so any
// line starting with "# " qualifies — decode is marker-based, not positional).
var titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)`)

// statusPattern extracts the status word; statusTokenPattern spans the whole
// token for in-place replacement.
var (
	statusPattern      = regexp.MustCompile(`\*\*Status:\*\*\s*(\w+)`)
	statusTokenPattern = regexp.MustCompile(`\*\*Status:\*\*\s*\w+`)
)

var (
	capturedPattern = regexp.MustCompile(`\*\*Captured:\*\*\s*(.+)`)
	tagsPattern     = regexp.MustCompile(`\*\*Tags:\*\*\s*(.+)`)
)

// capturedLayout renders a UTC timestamp with millisecond precision,
// e.g. "2024-03-01T10:15:30.000Z".
const capturedLayout = "2006-01-02T15:04:05.000Z"

// EncodeInput contains the fields written into a new record.
type EncodeInput struct {
	Title      string   // defaults to "Untitled capture" if empty
	CapturedAt time.Time
	Status     string // defaults to StatusOpen if empty
	Tags       []string
	ImageName  string // "<id>.png" when an image is attached, empty otherwise
	Details    string
}

// Encode builds the on-disk markdown text for a capture.
// Line order is fixed: title heading, captured line, status line, optional
// tags line, optional image reference, optional Details section, trailing
// separator. Decode depends on this order only for the Details terminator;
// the metadata lines are matched by marker.
func Encode(in EncodeInput) string {
	title := in.Title
	if title == "" {
		title = "Untitled capture"
	}
	status := in.Status
	if status == "" {
		status = StatusOpen
	}

	lines := []string{
		"# " + title,
		"",
		"**Captured:** " + in.CapturedAt.UTC().Format(capturedLayout),
		"**Status:** " + status,
	}
	if len(in.Tags) > 0 {
		lines = append(lines, "**Tags:** "+strings.Join(in.Tags, ", "))
	}
	if in.ImageName != "" {
		lines = append(lines, "", fmt.Sprintf("![screenshot](%s)", in.ImageName))
	}
	if in.Details != "" {
		lines = append(lines, "", "## Details", "", in.Details)
	}
	lines = append(lines, "", "---", "", "")

	return strings.Join(lines, "\n")
}

// Decode extracts record fields from markdown text. It never fails: missing
// or malformed markers fall back to defaults (title "Untitled", status
// "open", empty tags, nil captured/details) so hand-edited files stay
// readable.
func Decode(text string) Record {
	r := Record{
		Title:  "Untitled",
		Status: StatusOpen,
		Tags:   []string{},
	}

	if m := titlePattern.FindStringSubmatch(text); m != nil {
		r.Title = strings.TrimSpace(m[1])
	}
	if m := statusPattern.FindStringSubmatch(text); m != nil {
		r.Status = strings.ToLower(m[1])
	}
	if m := capturedPattern.FindStringSubmatch(text); m != nil {
		captured := strings.TrimSpace(m[1])
		r.Captured = &captured
	}
	if m := tagsPattern.FindStringSubmatch(text); m != nil {
		for _, t := range strings.Split(m[1], ",") {
			if tag := strings.TrimSpace(t); tag != "" {
				r.Tags = append(r.Tags, tag)
			}
		}
	}
	r.Details = decodeDetails(text)

	return r
}

// decodeDetails returns the trimmed text between a "## Details" heading and
// the next separator ("---") or heading ("##") line. The heading must be
// followed by a blank line, which is how Encode writes it. Returns nil when
// the section is absent.
func decodeDetails(text string) *string {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimRight(line, " \t") == "## Details" {
			start = i
			break
		}
	}
	if start < 0 || start+1 >= len(lines) || lines[start+1] != "" {
		return nil
	}

	var body []string
	for _, line := range lines[start+1:] {
		if strings.HasPrefix(line, "---") || strings.HasPrefix(line, "##") {
			break
		}
		body = append(body, line)
	}

	details := strings.TrimSpace(strings.Join(body, "\n"))
	return &details
}

// SetStatus rewrites the status token in place, leaving every other byte of
// the record untouched. Only the first "**Status:** <word>" occurrence is
// replaced; the canonical status line precedes any Details body, so body
// text containing the same marker is never altered. The text is returned
// unchanged if no status line exists.
func SetStatus(text, status string) string {
	loc := statusTokenPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + "**Status:** " + status + text[loc[1]:]
}
