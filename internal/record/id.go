package record

import (
	"regexp"
	"strings"
	"time"
)

// idTimestampLayout is the local-time id prefix, e.g. "2024-03-01-101530".
// It sorts lexicographically by capture time, which List relies on.
const idTimestampLayout = "2006-01-02-150405"

// slugMaxChars caps how much of the description feeds the slug.
const slugMaxChars = 40

// slugStripPattern collapses runs of non-alphanumerics into hyphens.
var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives the filesystem-safe id suffix from a capture description:
// first 40 characters, lowercased, non-alphanumeric runs collapsed to "-",
// no leading or trailing "-". May be empty.
func Slug(description string) string {
	runes := []rune(description)
	if len(runes) > slugMaxChars {
		runes = runes[:slugMaxChars]
	}
	s := strings.ToLower(string(runes))
	s = slugStripPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewID builds a record id from the capture time (local, second resolution)
// and the description slug. Two captures in the same second with the same
// slug collide; the store overwrites rather than probing for collisions.
func NewID(capturedAt time.Time, description string) string {
	id := capturedAt.Format(idTimestampLayout)
	if slug := Slug(description); slug != "" {
		id += "-" + slug
	}
	return id
}

// FileName returns the record filename for an id.
func FileName(id string) string { return id + ".md" }

// ImageName returns the sibling image filename for an id.
func ImageName(id string) string { return id + ".png" }
