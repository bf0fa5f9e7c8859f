package db

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	var out bytes.Buffer
	require.NoError(t, RunMigrateCommand([]string{"status"}, path, &out))
	assert.Contains(t, out.String(), "Current version: 0")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"up"}, path, &out))
	assert.Contains(t, out.String(), "Current version: 1")
	assert.Contains(t, out.String(), "Dirty: false")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"down"}, path, &out))
	assert.Contains(t, out.String(), "Current version: 0")

	// The store opens cleanly and re-applies the schema afterwards.
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
}

func TestRunMigrateCommand_Errors(t *testing.T) {
	var out bytes.Buffer
	err := RunMigrateCommand(nil, "x.db", &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "Usage:")

	out.Reset()
	require.NoError(t, RunMigrateCommand([]string{"help"}, "", &out))
	assert.Contains(t, out.String(), "status")

	err = RunMigrateCommand([]string{"sideways"}, "x.db", &out)
	assert.ErrorContains(t, err, "unknown migrate action")

	err = RunMigrateCommand([]string{"up"}, "", &out)
	assert.ErrorContains(t, err, "database path")
}
