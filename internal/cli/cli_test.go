package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("job path from flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"--job", "job.hcl"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "job.hcl", cfg.JobPath)
		assert.Equal(t, "cluster.hcl", cfg.ClusterPath)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 16, cfg.MaxParallel)
	})

	t.Run("job path from positional argument", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"jobs/"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.Equal(t, "jobs/", cfg.JobPath)
	})

	t.Run("sweep without a job is valid", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse([]string{"--sweep"}, &out)
		require.NoError(t, err)
		require.False(t, exit)
		assert.True(t, cfg.Sweep)
		assert.Empty(t, cfg.JobPath)
	})

	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		cfg, exit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--log-format", "xml", "job.hcl"}, &out)
		require.Error(t, err)
		exitErr, ok := err.(*ExitError)
		require.True(t, ok)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--log-level", "verbose", "job.hcl"}, &out)
		require.Error(t, err)
	})

	t.Run("invalid max-parallel rejected by config validation", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"--max-parallel", "0", "job.hcl"}, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MaxParallel")
	})
}
