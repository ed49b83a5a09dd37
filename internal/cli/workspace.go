package cli

import (
	"encoding/json"
	"os"

	"github.com/planwise/planwise/internal/domain"
	"github.com/planwise/planwise/internal/errors"
)

// LoadWorkspaceFile reads a workspace from the given JSON file.
func LoadWorkspaceFile(path string) (*domain.Workspace, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-supplied workspace path
	if err != nil {
		return nil, errors.Wrapf(err, "reading workspace file %s", path)
	}

	var w domain.Workspace
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(err, "parsing workspace file %s", path)
	}
	return &w, nil
}

// SaveWorkspaceFile writes a workspace to the given path as indented JSON.
// The write goes through a temp file and rename so a crash never leaves a
// half-written workspace behind.
func SaveWorkspaceFile(path string, w *domain.Workspace) error {
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding workspace")
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing workspace file %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "replacing workspace file %s", path)
	}
	return nil
}
