package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/domain"
)

func TestWorkspaceFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")

	w := &domain.Workspace{
		Tables: []domain.Table{
			{ID: "inbox", Title: "Inbox", Tasks: []domain.Task{
				{ID: "t1", Title: "Write report"},
			}},
		},
	}

	require.NoError(t, SaveWorkspaceFile(path, w))

	loaded, err := LoadWorkspaceFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Tables, 1)
	assert.Equal(t, "Inbox", loaded.Tables[0].Title)
	require.Len(t, loaded.Tables[0].Tasks, 1)
	assert.Equal(t, "Write report", loaded.Tables[0].Tasks[0].Title)

	// Saving writes via a temp file and rename, so no *.tmp files remain.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "workspace.json", entries[0].Name())
}

func TestLoadWorkspaceFileMissing(t *testing.T) {
	_, err := LoadWorkspaceFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadWorkspaceFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workspace.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadWorkspaceFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing workspace file")
}
