package foundations

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pxlpowered/foundations/tree"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	withSources bool     // Include source attribution for each key
	asJSON      bool     // Output as JSON instead of text format
	indent      string   // Indentation for JSON output (default: "  ")
	redact      []string // Key paths (and their children) whose values are hidden
}

// WithSources includes source attribution for each key in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs configuration as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// WithRedacted hides the values of the given key paths and everything below them.
func WithRedacted(keys ...string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.redact = append(cfg.redact, keys...)
	}
}

// Dump writes a human-readable representation of a loaded configuration.
// Text output has one "key: value" line per leaf in document order.
// Returns an error if the configuration was never loaded or writing fails.
func Dump(w io.Writer, cfg Configuration, opts ...DumpOption) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	data, ok := cfg.Get()
	if !ok {
		return fmt.Errorf("configuration %s has not been loaded", cfg.ID())
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	sources := cfg.Provenance().index()

	if config.asJSON {
		return dumpAsJSON(w, data, sources, config)
	}
	return dumpAsText(w, data, sources, config)
}

func dumpAsText(w io.Writer, data *tree.Tree, sources map[string]string, config dumpConfig) error {
	flat := data.Flatten()

	for _, key := range data.Keys() {
		line := fmt.Sprintf("%s: %s", key, displayValue(key, flat[key], config))
		if config.withSources {
			if name, ok := sources[key]; ok {
				line += fmt.Sprintf(" (source: %s)", name)
			}
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}

	return nil
}

// dumpAsJSON writes the nested document. With sources, the output is a flat
// object of {"value": ..., "source": ...} entries keyed by path instead.
func dumpAsJSON(w io.Writer, data *tree.Tree, sources map[string]string, config dumpConfig) error {
	var result any
	if config.withSources {
		flat := data.Flatten()
		entries := make(map[string]any, len(flat))
		for key, v := range flat {
			entries[key] = map[string]any{
				"value":  jsonValue(key, v, config),
				"source": sources[key],
			}
		}
		result = entries
	} else {
		result = redactTree(data.Map(), "", config)
	}

	var out []byte
	var err error
	if config.indent != "" {
		out, err = json.MarshalIndent(result, "", config.indent)
	} else {
		out, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func isRedacted(key string, config dumpConfig) bool {
	for _, r := range config.redact {
		if key == r || strings.HasPrefix(key, r+".") {
			return true
		}
	}
	return false
}

func jsonValue(key string, v any, config dumpConfig) any {
	if isRedacted(key, config) {
		return redacted
	}
	return v
}

func redactTree(m map[string]any, prefix string, config dumpConfig) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if isRedacted(key, config) {
			out[k] = redacted
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = redactTree(nested, key, config)
			continue
		}
		out[k] = v
	}
	return out
}

// displayValue formats a leaf for text output.
func displayValue(key string, v any, config dumpConfig) string {
	if isRedacted(key, config) {
		return redacted
	}

	switch val := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = fmt.Sprint(item)
		}
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("{%s}", strings.Join(keys, ", "))
	default:
		return fmt.Sprintf("%v", val)
	}
}
