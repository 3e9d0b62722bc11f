package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a serialization format for trees.
type Format string

// Supported formats.
const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
)

// ErrUnsupportedFormat is returned for formats other than yaml, json and toml.
var ErrUnsupportedFormat = errors.New("tree: unsupported format")

// ParseFormat validates a format name. "yml" is accepted as YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: yaml, json, toml)", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return YAML, true
	case ".json":
		return JSON, true
	case ".toml":
		return TOML, true
	default:
		return "", false
	}
}

// FormatFromContentType infers the format from an HTTP Content-Type header.
func FormatFromContentType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return YAML, true
	case "application/json":
		return JSON, true
	case "application/toml", "text/toml":
		return TOML, true
	default:
		return "", false
	}
}

// Parse decodes data in the given format. Empty input yields an empty tree.
func Parse(data []byte, format Format) (*Tree, error) {
	switch format {
	case YAML:
		var n yaml.Node
		if err := yaml.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		return FromNode(&n)
	case JSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return New(), nil
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
		return fromDecoded(raw)
	case TOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		return fromDecoded(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Encode serializes t. YAML output keeps comments and key order.
func (t *Tree) Encode(format Format) ([]byte, error) {
	switch format {
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(t.doc); err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	case JSON:
		data, err := json.MarshalIndent(t.Map(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case TOML:
		data, err := toml.Marshal(t.Map())
		if err != nil {
			return nil, fmt.Errorf("encode TOML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func fromDecoded(raw any) (*Tree, error) {
	switch v := raw.(type) {
	case nil:
		return New(), nil
	case map[string]any:
		return FromValue(v)
	default:
		return nil, fmt.Errorf("%w: found %T", ErrNotMapping, raw)
	}
}
