package ops

import (
	"path/filepath"

	"github.com/snaghq/snag/internal/record"
)

// NextInput contains parameters for the Next operation.
type NextInput struct {
	// Projects are scanned in order; the first project with any open record
	// supplies the result.
	Projects []string
}

// NextOutput is the oldest open record of the first project that has one.
type NextOutput struct {
	Issue
	Project     string `json:"project"`
	ProjectName string `json:"projectName"`
}

// Next finds the oldest open record across the given projects. Lists are
// newest first, so the oldest open record is the last element of the
// filtered list. Returns nil when no project has an open record.
func Next(input NextInput) (*NextOutput, error) {
	for _, project := range input.Projects {
		open, err := List(ListInput{ProjectPath: project, Status: record.StatusOpen})
		if err != nil {
			return nil, err
		}
		if len(open) == 0 {
			continue
		}
		return &NextOutput{
			Issue:       open[len(open)-1],
			Project:     project,
			ProjectName: filepath.Base(project),
		}, nil
	}
	return nil, nil
}
