// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/structarray/internal/config"
	"github.com/katalvlaran/structarray/storage"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "structarray.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, config.FormatTable, cfg.Output)
	require.Equal(t, storage.WordMax, cfg.WordMax)
	require.Equal(t, uint(storage.SegmentShift), cfg.SegmentShift)
	require.True(t, cfg.Standard())
	require.Equal(t, uint64(4), cfg.Demo.Rows)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeFile(t, `
log_level: debug
output: yaml
word_max: 8
segment_shift: 2
demo:
  rows: 10
  copy_offset: 3
  copy_count: 5
`)
	t.Setenv("STRUCTARRAY_OUTPUT", "json")
	t.Setenv("STRUCTARRAY_DEMO_COLS", "7")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, config.FormatJSON, cfg.Output, "environment wins over the file")
	require.Equal(t, uint64(7), cfg.Demo.Cols)
	require.Equal(t, uint64(10), cfg.Demo.Rows)
	require.False(t, cfg.Standard())

	l := cfg.Layout(30)
	require.Equal(t, uint64(8), l.PrimaryLength)
	require.Equal(t, uint64(5), l.FullSegments)
	require.Equal(t, uint64(2), l.LastSegmentSize)

	logger, err := cfg.Logger()
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"level":  "log_level: loud\n",
		"format": "log_format: xml\n",
		"output": "output: csv\n",
		"shift":  "segment_shift: 63\n",
		"word":   "word_max: 0\n",
		"copy":   "demo:\n  rows: 2\n  copy_offset: 1\n  copy_count: 2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, body))
			require.ErrorIs(t, err, config.ErrInvalid)
		})
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
