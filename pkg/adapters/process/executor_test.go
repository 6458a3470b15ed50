package process

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/hodaniel/graphwalker/internal/testutils"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("bindings are exercised with sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecutor_Execute(t *testing.T) {
	requireShell(t)

	ex := NewExecutor()
	ex.Register("e_open", "sh", "-c", "echo $GRAPHWALKER_KIND:$GRAPHWALKER_ELEMENT:$GRAPHWALKER_STEP")
	ex.Register("Login", "sh", "-c", "echo $GRAPHWALKER_KIND:$GRAPHWALKER_EDGE")

	t.Run("Runs Edge Then Vertex", func(t *testing.T) {
		res, err := ex.Execute(context.Background(), 7, domain.Step{Edge: "e_open", Vertex: "Login"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Executed)
		assert.Equal(t, []string{"edge:e_open:7", "vertex:e_open"}, res.Outputs)
	})

	t.Run("Skips Unbound Elements", func(t *testing.T) {
		res, err := ex.Execute(context.Background(), 1, domain.Step{Edge: "e_other", Vertex: "Home"})
		require.NoError(t, err)
		assert.Zero(t, res.Executed)
	})

	t.Run("Reports Failures", func(t *testing.T) {
		ex.Register("e_fail", "sh", "-c", "echo broken >&2; exit 3")
		_, err := ex.Execute(context.Background(), 2, domain.Step{Edge: "e_fail", Vertex: "Login"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStepFailed)

		var execErr *ExecutionError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, "e_fail", execErr.Element)
		assert.Contains(t, err.Error(), "Stderr: broken")
	})
}

func TestLoadBindings(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	testutils.SeedFiles(t, dir, map[string]string{
		"bindings.yaml": `bindings:
  - name: e_open
    command: sh
    args: ["-c", "echo $TARGET"]
    env:
      TARGET: staging
default:
  command: "true"
`,
		"bad.json": `{"bindings":[{"name":"x"}]}`,
	})

	cfg, err := LoadBindings(filepath.Join(dir, "bindings.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Bindings, 1)
	require.NotNil(t, cfg.Default)

	ex := NewExecutor(WithConfig(cfg), WithBaseDir(dir))
	res, err := ex.Execute(context.Background(), 1, domain.Step{Edge: "e_open", Vertex: "Anything"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Executed)
	assert.Equal(t, "staging", res.Outputs[0])

	_, err = LoadBindings(filepath.Join(dir, "bad.json"))
	assert.Error(t, err)

	_, err = LoadBindings(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
