package record

// Record status values. UpdateStatus accepts arbitrary strings and stores
// them verbatim, so these are the known values, not an exhaustive set.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Record holds the decoded fields of a capture record.
type Record struct {
	// Title is the first-line heading of the record
	Title string `json:"title"`

	// Status is the lifecycle state ("open" or "resolved" for well-formed
	// records; arbitrary strings survive a round trip unchanged)
	Status string `json:"status"`

	// Captured is the ISO-8601 write timestamp (nil if the line is missing)
	Captured *string `json:"captured"`

	// Tags is the ordered tag list (empty, never nil)
	Tags []string `json:"tags"`

	// Details is the free-form body under the "## Details" heading
	// (nil if the section is absent)
	Details *string `json:"details"`
}
