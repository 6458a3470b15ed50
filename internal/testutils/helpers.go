// Package testutils holds fixtures shared by adapter tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SeedFiles writes files (name to content) into dir.
func SeedFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to seed %s", name)
	}
}

// LoginYAML is a small weighted model with a sub-state label, used across adapter tests.
const LoginYAML = `name: login
start: v_start
vertices:
  - id: v_start
    label: Start
  - id: v_form
    label: Login/empty
  - id: v_home
    label: Home
edges:
  - id: e_open
    label: Open
    source: v_start
    target: v_form
  - id: e_submit
    source: v_form
    target: v_home
    weight: 0.8
  - id: e_cancel
    source: v_form
    target: v_start
  - id: e_logout
    source: v_home
    target: v_start
`
