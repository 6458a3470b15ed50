package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Binding ties a model element (edge or vertex, by ID or label) to a command.
type Binding struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of a bindings file.
// Default, when set, runs for every element without its own binding.
type ConfigFile struct {
	Bindings []Binding `yaml:"bindings" json:"bindings"`
	Default  *Binding  `yaml:"default" json:"default"`
}

// LoadBindings reads a bindings file (YAML or JSON).
func LoadBindings(path string) (ConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigFile{}, fmt.Errorf("failed to read bindings: %w", err)
	}

	var cfg ConfigFile
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return ConfigFile{}, fmt.Errorf("failed to parse bindings json: %w", err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return ConfigFile{}, fmt.Errorf("failed to parse bindings yaml: %w", err)
		}
	}

	for i, b := range cfg.Bindings {
		if b.Name == "" || b.Command == "" {
			return ConfigFile{}, fmt.Errorf("binding %d: name and command are required", i)
		}
	}
	return cfg, nil
}
