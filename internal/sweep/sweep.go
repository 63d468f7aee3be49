package sweep

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/snaghq/snag/internal/ops"
	"github.com/snaghq/snag/internal/record"
)

// Policy is the retention policy applied to every record in a sweep pass.
// It is supplied by the caller on each invocation; the sweeper keeps no
// state between passes.
type Policy struct {
	RetentionDays      int  `json:"retentionDays"`
	AutoDeleteResolved bool `json:"autoDeleteResolved"`
}

// Result summarizes one project's sweep. Error marks a project whose sweep
// failed on I/O; its counts are meaningless then.
type Result struct {
	Deleted int  `json:"deleted"`
	Skipped int  `json:"skipped"`
	Error   bool `json:"error,omitempty"`
}

// Project sweeps one project's record directory. Each record is evaluated
// fresh against two rules based on its file modification time:
//
//   - soft: resolved records older than RetentionDays are deleted when
//     AutoDeleteResolved is set
//   - hard: records older than twice RetentionDays are deleted regardless
//     of status
//
// Deleting a record removes its image file too. A project without a record
// directory sweeps to a zero Result, not an error.
func Project(projectPath string, policy Policy) (Result, error) {
	var result Result

	snagDir := ops.SnagDir(projectPath)
	entries, err := os.ReadDir(snagDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return result, err
	}

	now := time.Now()
	cutoff := time.Duration(policy.RetentionDays) * 24 * time.Hour

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		mdPath := filepath.Join(snagDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return result, err
		}
		data, err := os.ReadFile(mdPath)
		if err != nil {
			return result, err
		}

		age := now.Sub(info.ModTime())
		status := record.Decode(string(data)).Status

		shouldDelete := (policy.AutoDeleteResolved && status == record.StatusResolved && age > cutoff) ||
			age > 2*cutoff // hard cutoff overrides open records' immunity

		if !shouldDelete {
			result.Skipped++
			continue
		}

		if err := os.Remove(mdPath); err != nil {
			return result, err
		}
		base := strings.TrimSuffix(entry.Name(), ".md")
		pngPath := filepath.Join(snagDir, record.ImageName(base))
		if err := os.Remove(pngPath); err != nil && !os.IsNotExist(err) {
			return result, err
		}
		result.Deleted++
	}

	return result, nil
}

// All sweeps every given project. A single project's failure is recorded in
// its Result and never aborts the remaining projects.
func All(projects []string, policy Policy) map[string]Result {
	runID := newRunID()
	log := logrus.WithField("sweep_run", runID)

	results := make(map[string]Result, len(projects))
	for _, projectPath := range projects {
		result, err := Project(projectPath, policy)
		if err != nil {
			log.WithField("project", projectPath).WithError(err).Warn("sweep failed")
			results[projectPath] = Result{Error: true}
			continue
		}
		if result.Deleted > 0 {
			log.WithFields(logrus.Fields{
				"project": projectPath,
				"deleted": result.Deleted,
				"skipped": result.Skipped,
			}).Info("sweep pruned records")
		}
		results[projectPath] = result
	}
	return results
}

// newRunID returns a ULID identifying one sweep pass in the logs.
func newRunID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return "unknown"
	}
	return id.String()
}
