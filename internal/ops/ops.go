package ops

import (
	"path/filepath"
	"strings"

	"github.com/snaghq/snag/internal/record"
)

// SnagDirName is the per-project record directory.
const SnagDirName = ".snag"

// SnagDir returns the record directory for a project.
func SnagDir(projectPath string) string {
	return filepath.Join(projectPath, SnagDirName)
}

// Issue is a decoded record plus its on-disk identity. Field names follow
// the dashboard API wire format.
type Issue struct {
	ID string `json:"id"`
	record.Record
	MdPath        string  `json:"mdPath"`
	PngPath       *string `json:"pngPath"`
	HasScreenshot bool    `json:"hasScreenshot"`
}

// issueFromFile decodes a record file into an Issue. The sibling png is
// looked up by base name; a missing image is not an error (a reader can
// observe a record whose image write has not landed yet).
func issueFromFile(mdPath string, text string, hasPng bool) Issue {
	base := strings.TrimSuffix(filepath.Base(mdPath), ".md")

	issue := Issue{
		ID:     base,
		Record: record.Decode(text),
		MdPath: mdPath,
	}
	if hasPng {
		pngPath := filepath.Join(filepath.Dir(mdPath), record.ImageName(base))
		issue.PngPath = &pngPath
		issue.HasScreenshot = true
	}
	return issue
}
