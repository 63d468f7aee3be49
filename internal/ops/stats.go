package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/snaghq/snag/internal/record"
)

// ProjectStats counts a project's records by status.
type ProjectStats struct {
	Total    int `json:"total"`
	Open     int `json:"open"`
	Resolved int `json:"resolved"`
}

// Stats scans a project's record directory and tallies record statuses.
// Any status other than "resolved" counts as open, matching the decoder's
// permissive default. A missing record directory yields zero stats.
func Stats(projectPath string) ProjectStats {
	var stats ProjectStats

	snagDir := SnagDir(projectPath)
	entries, err := os.ReadDir(snagDir)
	if err != nil {
		return stats
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(snagDir, entry.Name()))
		if err != nil {
			continue
		}
		stats.Total++
		if record.Decode(string(data)).Status == record.StatusResolved {
			stats.Resolved++
		} else {
			stats.Open++
		}
	}

	return stats
}
