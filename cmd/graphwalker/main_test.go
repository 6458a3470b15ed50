package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hodaniel/graphwalker/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graphwalker version "))
}

func TestValidateAndGraph(t *testing.T) {
	dir := t.TempDir()
	testutils.SeedFiles(t, dir, map[string]string{
		"login.yaml": testutils.LoginYAML,
		"broken.yaml": `name: broken
start: a
vertices:
  - id: a
edges:
  - id: e1
    source: a
    target: ghost
`,
	})

	out, err := execute(t, "validate", filepath.Join(dir, "login.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Model is valid!")

	_, err = execute(t, "validate", filepath.Join(dir, "broken.yaml"))
	assert.Error(t, err)

	out, err = execute(t, "graph", filepath.Join(dir, "login.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, `v_start(("Start"))`)
}

func TestModelsCatalog(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "catalog")
	testutils.SeedFiles(t, dir, map[string]string{"login.yaml": testutils.LoginYAML})

	out, err := execute(t, "models", "import", "--store", storeDir, filepath.Join(dir, "login.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported model 'login'")

	out, err = execute(t, "models", "ls", "--store", storeDir)
	require.NoError(t, err)
	assert.Contains(t, out, "- login")

	out, err = execute(t, "models", "inspect", "--store", storeDir, "login")
	require.NoError(t, err)
	assert.Contains(t, out, `"start": "v_start"`)

	out, err = execute(t, "models", "rm", "--store", storeDir, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed model 'login'")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "version")
	assert.Error(t, err)
	rootCmd.PersistentFlags().Set("log-level", "warn")
}
