package workdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dirs holds the three local staging areas. Creation is idempotent and
// never destructive: a restart must not wipe files that in-flight
// requests still depend on.
type Dirs struct {
	Inputs  string
	Outputs string
	Models  string
}

// Ensure creates the staging directories under root if they do not
// already exist.
func Ensure(root string) (*Dirs, error) {
	d := &Dirs{
		Inputs:  filepath.Join(root, "user_submitted_files"),
		Outputs: filepath.Join(root, "image_outputs"),
		Models:  filepath.Join(root, "models"),
	}

	for _, dir := range []string{d.Inputs, d.Outputs, d.Models} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return d, nil
}
