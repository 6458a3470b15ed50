// Package file reads and writes models as YAML or JSON files.
package file

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hodaniel/graphwalker/pkg/domain"
	"gopkg.in/yaml.v3"
)

// IsJSON reports whether ext selects the JSON codec. Everything else is YAML.
func IsJSON(ext string) bool {
	return strings.EqualFold(ext, ".json")
}

// Decode parses a model in the format selected by ext.
func Decode(data []byte, ext string) (*domain.Model, error) {
	var model domain.Model
	if IsJSON(ext) {
		if err := json.Unmarshal(data, &model); err != nil {
			return nil, fmt.Errorf("failed to parse model json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &model); err != nil {
			return nil, fmt.Errorf("failed to parse model yaml: %w", err)
		}
	}
	return &model, nil
}

// Encode renders a model in the format selected by ext.
func Encode(model *domain.Model, ext string) ([]byte, error) {
	if IsJSON(ext) {
		return json.MarshalIndent(model, "", "  ")
	}
	return yaml.Marshal(model)
}
