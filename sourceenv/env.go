package sourceenv

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/pxlpowered/foundations/internal/normalize"
	"github.com/pxlpowered/foundations/tree"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool

	// Environ replaces os.Environ as the variable list.
	Environ func() []string
}

// Source reads environment variables into a tree.
type Source struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) *Source {
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	return &Source{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
// Values are always strings. Keys that do not form a valid path (for example
// "A__" → "a.") are skipped. When both "a" and "a.b" are present the nested
// key wins.
func (e *Source) Load(ctx context.Context) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	for _, env := range e.opts.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		if e.opts.Prefix != "" {
			var hasPrefix bool
			if e.opts.CaseSensitive {
				hasPrefix = strings.HasPrefix(key, e.opts.Prefix)
			} else {
				hasPrefix = strings.HasPrefix(strings.ToUpper(key), strings.ToUpper(e.opts.Prefix))
			}

			if !hasPrefix {
				continue
			}
			key = key[len(e.opts.Prefix):]
		}

		if key == "" {
			continue
		}

		// Normalize: FOO__BAR → foo.bar
		values[normalize.ToLowerDotPath(key)] = value
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := tree.New()
	for _, k := range keys {
		if _, ok := normalize.SplitPath(k); !ok {
			continue
		}
		if err := result.Set(k, values[k]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Name returns a human-readable identifier for this source.
func (e *Source) Name() string {
	return "env:" + e.opts.Prefix
}
