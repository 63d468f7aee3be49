package ops

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/snaghq/snag/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	ProjectPath string // required
	Status      string // optional equality filter ("open" or "resolved")
}

// List returns the project's decoded records, newest first. The id's leading
// timestamp sorts lexicographically, so newest-first is a descending
// filename sort. A project without a record directory yields an empty list.
func List(input ListInput) ([]Issue, error) {
	if strings.TrimSpace(input.ProjectPath) == "" {
		return nil, errors.NewInvalidRequest("project path is required")
	}

	snagDir := SnagDir(input.ProjectPath)
	entries, err := os.ReadDir(snagDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Issue{}, nil
		}
		return nil, errors.NewIO(err)
	}

	names := make([]string, 0, len(entries))
	pngs := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".md"):
			names = append(names, name)
		case strings.HasSuffix(name, ".png"):
			pngs[strings.TrimSuffix(name, ".png")] = true
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	issues := make([]Issue, 0, len(names))
	for _, name := range names {
		mdPath := filepath.Join(snagDir, name)
		data, err := os.ReadFile(mdPath)
		if err != nil {
			// The sweeper may have deleted the file between the scan and
			// the read; skip rather than fail the whole listing.
			continue
		}
		base := strings.TrimSuffix(name, ".md")
		issue := issueFromFile(mdPath, string(data), pngs[base])
		if input.Status != "" && issue.Status != input.Status {
			continue
		}
		issues = append(issues, issue)
	}

	return issues, nil
}
