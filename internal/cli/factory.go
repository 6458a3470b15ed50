package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hodaniel/graphwalker/internal/compiler"
	"github.com/hodaniel/graphwalker/pkg/adapters/file"
	loamAdapter "github.com/hodaniel/graphwalker/pkg/adapters/loam"
	"github.com/hodaniel/graphwalker/pkg/adapters/redis"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/hodaniel/graphwalker/pkg/strategy"
)

// OpenLoader picks a model loader by path convention.
// A directory is read as a loam repository of vertex documents, anything else as a model file.
func OpenLoader(path string) (ports.ModelLoader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("model source %q: %w", path, err)
	}
	if info.IsDir() {
		loader, err := loamAdapter.Open(path)
		if err != nil {
			return nil, err
		}
		return loader, nil
	}
	return file.NewLoader(path), nil
}

// OpenStore picks a model catalog from a --store value.
// "redis://[:password@]host:port[/db]" selects Redis; any other value is a directory.
func OpenStore(target string) (ports.ModelStore, error) {
	if !strings.HasPrefix(target, "redis://") {
		if target == "" {
			target = filepath.Join(".graphwalker", "models")
		}
		return file.NewStore(target), nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	password, _ := u.User.Password()
	db := 0
	if p := strings.Trim(u.Path, "/"); p != "" {
		db, err = strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
	}
	return redis.New(u.Host, password, db), nil
}

// ResolveStrategy interprets a --strategy value.
// An existing file is loaded as a strategy document, otherwise the value is compiled as an expression.
func ResolveStrategy(value string) (strategy.Spec, error) {
	if value == "" {
		return strategy.Default(), nil
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		return strategy.Load(value)
	}
	return compiler.NewParser().Parse(value)
}
