package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/record"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ProjectPath string // required
	ID          string // required
}

// FetchOutput is the decoded record plus its raw stored text.
type FetchOutput struct {
	Issue
	Content string `json:"content"`
}

// Fetch retrieves a single record by id.
func Fetch(input FetchInput) (*FetchOutput, error) {
	if strings.TrimSpace(input.ProjectPath) == "" {
		return nil, errors.NewInvalidRequest("project path is required")
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	snagDir := SnagDir(input.ProjectPath)
	mdPath := filepath.Join(snagDir, record.FileName(input.ID))

	data, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.ID)
		}
		return nil, errors.NewIO(err)
	}

	_, statErr := os.Stat(filepath.Join(snagDir, record.ImageName(input.ID)))

	return &FetchOutput{
		Issue:   issueFromFile(mdPath, string(data), statErr == nil),
		Content: string(data),
	}, nil
}
