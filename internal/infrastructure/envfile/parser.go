// Package envfile reads environment variables from profile source files.
//
// Supported formats are chosen by extension: .json (comments and trailing
// commas tolerated), .yaml/.yml, .toml, and everything else as dotenv lines.
package envfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/devflow-go/internal/ports"
)

// Parser implements ports.VariableSourceParser.
type Parser struct{}

// NewParser builds a parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads path and returns its key/value pairs.
func (p *Parser) ParseFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return ParseDotenv(string(data)), nil
	}
}

// ParseDotenv parses KEY=VALUE lines. Lines starting with # or without = are
// skipped, and only the first = separates key from value.
func ParseDotenv(content string) map[string]string {
	vars := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = strings.TrimSpace(value)
	}
	return vars
}

// ParseJSON reads a flat JSON object. Strings are taken verbatim, other
// values keep their JSON text, null becomes "".
func ParseJSON(data []byte) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		text := strings.TrimSpace(string(v))
		switch {
		case text == "null":
			vars[k] = ""
		case strings.HasPrefix(text, `"`):
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("parse json value for %s: %w", k, err)
			}
			vars[k] = s
		default:
			vars[k] = text
		}
	}
	return vars, nil
}

// ParseYAML reads a flat YAML mapping.
func ParseYAML(data []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return stringify(raw), nil
}

// ParseTOML reads top-level TOML keys.
func ParseTOML(data []byte) (map[string]string, error) {
	var raw map[string]interface{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	return stringify(raw), nil
}

func stringify(raw map[string]interface{}) map[string]string {
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			vars[k] = ""
			continue
		}
		vars[k] = fmt.Sprint(v)
	}
	return vars
}

var _ ports.VariableSourceParser = (*Parser)(nil)
