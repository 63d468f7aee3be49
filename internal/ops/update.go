package ops

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/record"
)

// UpdateStatusInput contains parameters for the UpdateStatus operation.
type UpdateStatusInput struct {
	ProjectPath string // required
	ID          string // required
	Status      string // stored verbatim; not restricted to open/resolved
}

// UpdateStatusOutput contains the result of the UpdateStatus operation.
type UpdateStatusOutput struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

// UpdateStatus rewrites only the record's status token and writes the file
// back. The rest of the file, including any body text resembling the status
// marker, is left byte-for-byte intact. Unknown status strings are accepted
// and stored verbatim.
func UpdateStatus(input UpdateStatusInput) (*UpdateStatusOutput, error) {
	if strings.TrimSpace(input.ProjectPath) == "" {
		return nil, errors.NewInvalidRequest("project path is required")
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	mdPath := filepath.Join(SnagDir(input.ProjectPath), record.FileName(input.ID))

	data, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(input.ID)
		}
		return nil, errors.NewIO(err)
	}

	if input.Status != "" {
		updated := record.SetStatus(string(data), input.Status)
		if err := os.WriteFile(mdPath, []byte(updated), 0o644); err != nil {
			return nil, errors.NewIO(err)
		}
	}

	return &UpdateStatusOutput{
		Success: true,
		ID:      input.ID,
		Status:  input.Status,
	}, nil
}
