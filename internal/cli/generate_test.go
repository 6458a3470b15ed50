package cli

import (
	"bytes"
	"context"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hodaniel/graphwalker/internal/testutils"
	"github.com/hodaniel/graphwalker/pkg/adapters/file"
	"github.com/hodaniel/graphwalker/pkg/adapters/process"
	"github.com/hodaniel/graphwalker/pkg/adapters/redis"
	"github.com/hodaniel/graphwalker/pkg/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLogin(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.SeedFiles(t, dir, map[string]string{"login.yaml": testutils.LoginYAML})
	return filepath.Join(dir, "login.yaml")
}

func TestRunGenerate_JSON(t *testing.T) {
	var out bytes.Buffer
	err := RunGenerate(context.Background(), GenerateOptions{
		ModelPath: seedLogin(t),
		Strategy:  "a_star(reached_vertex(v_home))",
		JSON:      true,
		Output:    &out,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		`{"edge":"Open","vertex":"Login/empty"}`,
		`{"edge":"e_submit","vertex":"Home"}`,
	}, lines)
}

func TestRunGenerate_ReportAndGraph(t *testing.T) {
	var out bytes.Buffer
	seed := uint64(3)
	err := RunGenerate(context.Background(), GenerateOptions{
		ModelPath: seedLogin(t),
		Strategy:  "a_star(reached_vertex(v_home))",
		Seed:      &seed,
		Report:    true,
		Graph:     true,
		Output:    &out,
	})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "   1  Open -> Login/empty")
	assert.Contains(t, got, "# Walk of `login`")
	assert.Contains(t, got, "class v_home current;")
}

func TestRunGenerate_Errors(t *testing.T) {
	var out bytes.Buffer
	err := RunGenerate(context.Background(), GenerateOptions{ModelPath: filepath.Join(t.TempDir(), "none.yaml"), Output: &out})
	assert.Error(t, err)

	err = RunGenerate(context.Background(), GenerateOptions{ModelPath: seedLogin(t), Strategy: "jump(never())", Output: &out})
	assert.ErrorIs(t, err, strategy.ErrUnknownGenerator)
}

func TestRunGenerate_CancelledExitsCleanly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := RunGenerate(ctx, GenerateOptions{ModelPath: seedLogin(t), Strategy: "random(never())", Output: &out})
	assert.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestResolveStrategy(t *testing.T) {
	spec, err := ResolveStrategy("")
	require.NoError(t, err)
	assert.Equal(t, strategy.Default(), spec)

	dir := t.TempDir()
	testutils.SeedFiles(t, dir, map[string]string{"s.yaml": `name: smoke
phases:
  - generator: random
    stop_condition:
      type: test_length
      params:
        length: 5
`})
	spec, err = ResolveStrategy(filepath.Join(dir, "s.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "smoke", spec.Name)

	spec, err = ResolveStrategy("random(test_length(5))")
	require.NoError(t, err)
	require.Len(t, spec.Phases, 1)
	assert.Equal(t, strategy.GeneratorRandom, spec.Phases[0].Generator)
}

func TestOpenStore(t *testing.T) {
	store, err := OpenStore(t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)

	store, err = OpenStore("redis://:secret@localhost:6379/2")
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, store)

	_, err = OpenStore("redis://localhost:6379/x")
	assert.Error(t, err)
}

func TestRunGenerate_StopsOnFailingBinding(t *testing.T) {
	if _, err := osexec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	model := seedLogin(t)
	dir := filepath.Dir(model)
	testutils.SeedFiles(t, dir, map[string]string{"bindings.yaml": `bindings:
  - name: e_submit
    command: sh
    args: ["-c", "exit 1"]
`})

	var out bytes.Buffer
	err := RunGenerate(context.Background(), GenerateOptions{
		ModelPath: model,
		Strategy:  "a_star(reached_vertex(v_home)) random(test_length(10))",
		Bindings:  filepath.Join(dir, "bindings.yaml"),
		Output:    &out,
	})
	assert.ErrorIs(t, err, process.ErrStepFailed)
	assert.Contains(t, out.String(), "error: 'e_submit'")
	assert.NotContains(t, out.String(), "   3  ")
}
