package cli

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/planwise/planwise/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{OutputText, true},
		{OutputJSON, true},
		{"yaml", false},
		{"", false},
		{"TEXT", false},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValidOutputFormat(tc.format))
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"generic error", stderrors.New("boom"), ExitError},
		{"invalid output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"unknown flag", stderrors.New(`unknown flag: --bogus`), ExitInvalidInput},
		{"unknown command", stderrors.New(`unknown command "frob" for "planwise"`), ExitInvalidInput},
		{"mutually exclusive flags", stderrors.New("if any flags in the group [verbose quiet] are set none of the others can be"), ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}

func TestRootRejectsInvalidOutputFormat(t *testing.T) {
	t.Setenv("PLANWISE_HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})
	cmd.SetArgs([]string{"--output", "yaml"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
	assert.Equal(t, "1.2.3 (commit: abc123, built: 2026-08-01)",
		formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-08-01"}))
}
