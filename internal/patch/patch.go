// Package patch applies the verushash lazy-load patch to stratum-pool.
//
// The patch is idempotent and reversible: a sentinel marker comment both
// detects prior application and verifies success, and the pre-patch bytes
// are kept in a sibling backup that is restored whenever verification
// fails. Re-running the whole bootstrap any number of times yields the
// same file content as running it once.
package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/poolkit/poolstrap/internal/errors"
)

// BackupSuffix is appended to the target path for the pre-patch copy.
const BackupSuffix = ".bak"

// Target identifies the file to patch.
type Target struct {
	// Path is the absolute path of the file to patch.
	Path string

	// Marker is the sentinel comment inserted by the patch.
	Marker string

	// BackupPath receives a verbatim pre-patch copy. Defaults to
	// Path + BackupSuffix when empty.
	BackupPath string
}

// NewTarget builds a Target for relPath beneath root.
func NewTarget(root, relPath, marker string) Target {
	path := filepath.Join(root, relPath)
	return Target{
		Path:       path,
		Marker:     marker,
		BackupPath: path + BackupSuffix,
	}
}

// Outcome reports what Apply did.
type Outcome int

const (
	// AlreadyPatched means the marker was present and the file untouched.
	AlreadyPatched Outcome = iota
	// Applied means the transformation ran and verified.
	Applied
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case AlreadyPatched:
		return "already patched"
	case Applied:
		return "applied"
	default:
		return "unknown"
	}
}

// Apply runs the lazy-load patch against the target.
//
// The file is backed up before any mutation and restored over the target
// if the marker is absent after the transformation, so the target is
// never left partially transformed. The backup stays on disk after
// success as a recovery artifact.
func Apply(target Target) (Outcome, error) {
	if target.BackupPath == "" {
		target.BackupPath = target.Path + BackupSuffix
	}

	info, err := os.Stat(target.Path)
	if err != nil {
		return 0, errors.Precondition(fmt.Sprintf("patch target %s is missing", target.Path), err).
			WithSuggestion("run the install stage first so stratum-pool is present")
	}
	mode := info.Mode().Perm()

	original, err := os.ReadFile(target.Path)
	if err != nil {
		return 0, errors.Patch(fmt.Sprintf("read %s", target.Path), err)
	}

	if strings.Contains(string(original), target.Marker) {
		return AlreadyPatched, nil
	}

	// Backup must land on disk before any mutation.
	if err := os.WriteFile(target.BackupPath, original, mode); err != nil {
		return 0, errors.Patch(fmt.Sprintf("write backup %s", target.BackupPath), err).
			WithSuggestion("check filesystem permissions; the target was not modified")
	}

	transformed := Transform(string(original), target.Marker)

	if err := os.WriteFile(target.Path, []byte(transformed), mode); err != nil {
		restoreErr := os.WriteFile(target.Path, original, mode)
		if restoreErr != nil {
			return 0, errors.Patch(fmt.Sprintf("write %s failed and restore failed, recover manually from %s", target.Path, target.BackupPath), restoreErr)
		}
		return 0, errors.Patch(fmt.Sprintf("write %s", target.Path), err)
	}

	// Verify by re-reading what actually hit the disk.
	written, err := os.ReadFile(target.Path)
	if err == nil && strings.Contains(string(written), target.Marker) {
		return Applied, nil
	}

	if restoreErr := os.WriteFile(target.Path, original, mode); restoreErr != nil {
		return 0, errors.Patch(fmt.Sprintf("verification failed and restore failed, recover manually from %s", target.BackupPath), restoreErr)
	}
	return 0, errors.Patch(fmt.Sprintf("patch verification failed for %s, original restored", target.Path), err).
		WithSuggestion("stratum-pool sources differ from the expected layout; patch by hand or pin the dependency")
}
