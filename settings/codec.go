package settings

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Format is the serialization format of a persisted settings document.
type Format int

const (
	// FormatJSON is used for .json and .refitter documents.
	FormatJSON Format = iota
	// FormatYAML is used for .yaml and .yml documents.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the settings format from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a persisted settings document. Keys absent from the document
// keep their Default values.
func Decode(data []byte, format Format) (Settings, error) {
	s := Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: decoding yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: decoding json: %w", err)
		}
	}
	return s, nil
}

// Encode serializes s in the given format.
func Encode(s Settings, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("settings: encoding yaml: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("settings: encoding json: %w", err)
		}
		return append(data, '\n'), nil
	}
}
