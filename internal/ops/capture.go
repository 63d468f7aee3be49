package ops

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/snaghq/snag/internal/errors"
	"github.com/snaghq/snag/internal/record"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	ProjectPath string // required
	Description string // required; becomes the record title
	Details     string
	Tags        []string
	Image       []byte    // raw PNG bytes from the capture collaborator
	CapturedAt  time.Time // zero value means time.Now()
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID         string  `json:"id"`
	RecordPath string  `json:"mdPath"`
	ImagePath  *string `json:"pngPath"`
}

// Capture writes a new record (and its image, if any) into the project's
// record directory, creating the directory if missing.
//
// The id is derived from the capture second and the description slug; a
// second capture in the same second with the same slug overwrites the first.
// The store does not probe for collisions.
//
// The image is written before the record so a directory scan never sees a
// record whose referenced image is missing because of write ordering.
func Capture(input CaptureInput) (*CaptureOutput, error) {
	if strings.TrimSpace(input.ProjectPath) == "" {
		return nil, errors.NewInvalidRequest("project path is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, errors.NewInvalidRequest("description is required")
	}

	capturedAt := input.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	snagDir := SnagDir(input.ProjectPath)
	if err := os.MkdirAll(snagDir, 0o755); err != nil {
		return nil, errors.NewIO(err)
	}

	id := record.NewID(capturedAt, input.Description)

	out := &CaptureOutput{
		ID:         id,
		RecordPath: filepath.Join(snagDir, record.FileName(id)),
	}

	imageName := ""
	if len(input.Image) > 0 {
		imageName = record.ImageName(id)
		imagePath := filepath.Join(snagDir, imageName)
		if err := os.WriteFile(imagePath, input.Image, 0o644); err != nil {
			return nil, errors.NewIO(err)
		}
		out.ImagePath = &imagePath
	}

	text := record.Encode(record.EncodeInput{
		Title:      input.Description,
		CapturedAt: capturedAt,
		Tags:       input.Tags,
		ImageName:  imageName,
		Details:    input.Details,
	})
	if err := os.WriteFile(out.RecordPath, []byte(text), 0o644); err != nil {
		return nil, errors.NewIO(err)
	}

	return out, nil
}
