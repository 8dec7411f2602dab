// Package convert adapts TOON's Go value model (nil, bool, float64,
// string, map[string]any, []any — the shapes Decode produces and Marshal
// accepts) to and from the other structured text formats the toon CLI
// accepts on its other side: JSON, YAML, and TOML.
package convert

import (
	"encoding/json"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	yaml "go.yaml.in/yaml/v3"
)

// Format names a structured text format the CLI can read or write
// alongside TOON.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ParseFormat maps a user-supplied --from/--to flag value to a Format.
// Empty input defaults to JSON; any other unrecognized value is an error.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case JSON, YAML, TOML, "":
		if s == "" {
			return JSON, nil
		}
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json, yaml, or toml)", s)
	}
}

// Decode parses data in the given format into the TOON value model.
func Decode(data []byte, format Format) (any, error) {
	switch format {
	case JSON:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return v, nil
	case YAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return v, nil
	case TOML:
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Encode renders v (typically whatever toon.Decode returned) in the given
// format.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case JSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return out, nil
	case YAML:
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	case TOML:
		out, err := toml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
