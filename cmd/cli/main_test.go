package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// An HCL file with a syntax error makes app.NewApp panic during loading;
	// run must recover it and return the cause as an error.
	invalidHCL := `
		task "map" "1" {
			job_id =
	`
	tempDir := t.TempDir()
	clusterPath := filepath.Join(tempDir, "cluster.hcl")
	require.NoError(t, os.WriteFile(clusterPath, []byte(invalidHCL), 0o600))

	out := &bytes.Buffer{}
	runErr := run(out, []string{"--cluster", clusterPath, "--sweep"})

	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, nil)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined")
}
