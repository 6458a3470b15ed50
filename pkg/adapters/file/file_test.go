package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/adapters/file"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginYAML = `
start: v_start
vertices:
  - id: v_start
    label: Start
  - id: v_form
    label: Login/empty
edges:
  - id: e_open
    label: Open
    source: v_start
    target: v_form
  - id: e_back
    source: v_form
    target: v_start
    weight: 0.25
`

func TestLoader_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.yaml")
	require.NoError(t, os.WriteFile(path, []byte(loginYAML), 0o644))

	model, err := file.NewLoader(path).LoadModel(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "login", model.Name, "name defaults to the file name")
	assert.Equal(t, "v_start", model.Start)
	require.Len(t, model.Edges, 2)
	assert.Nil(t, model.Edges[0].Weight)
	require.NotNil(t, model.Edges[1].Weight)
	assert.Equal(t, 0.25, *model.Edges[1].Weight)
	assert.Equal(t, "empty", model.Vertices[1].SubState())
}

func TestLoader_JSONAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"named","start":"a","vertices":[{"id":"a"}],"edges":[]}`), 0o644))

	model, err := file.NewLoader(path).LoadModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "named", model.Name)

	_, err = file.NewLoader(filepath.Join(dir, "nope.yaml")).LoadModel(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = file.NewLoader(bad).LoadModel(context.Background())
	assert.Error(t, err)
}

func TestStore_Contract(t *testing.T) {
	ports.RunModelStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_ReadsYAMLDroppedIn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login.yml"), []byte(loginYAML), 0o644))
	store := file.NewStore(dir)

	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"login"}, names)

	model, err := store.Load(context.Background(), "login")
	require.NoError(t, err)
	assert.Len(t, model.Vertices, 2)

	_, err = store.Load(context.Background(), "../etc")
	assert.ErrorIs(t, err, domain.ErrInvalidModel)
}
