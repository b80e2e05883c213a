package pipeline

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tilegarden/spritepack/pkg/errors"
)

// Workspace is a scoped scratch directory for one pipeline run. Artifacts are
// staged here before upload so a partially written file never reaches the
// store. The directory lives under the system temp dir and is removed by
// Close, including after failed runs.
type Workspace struct {
	root string
}

// NewWorkspace creates a uniquely named scratch directory.
func NewWorkspace() (*Workspace, error) {
	root := filepath.Join(os.TempDir(), "spritepack-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create workspace")
	}
	return &Workspace{root: root}, nil
}

// Root returns the workspace directory path.
func (w *Workspace) Root() string {
	return w.root
}

// TierDir returns a per-tier staging subdirectory, creating it on first use.
func (w *Workspace) TierDir(label string) (string, error) {
	dir := filepath.Join(w.root, label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create tier dir")
	}
	return dir, nil
}

// Close removes the workspace directory and everything staged in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.root)
}
