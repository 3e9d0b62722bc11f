package message

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pxlpowered/foundations/sourcefile"
	"github.com/pxlpowered/foundations/tree"
)

// DefaultPath is the location of the built-in catalog inside Assets.
const DefaultPath = "assets/internal-messages.yaml"

const (
	keyMissing    = "The key %s is missing"
	textMalformed = "The text for key %s is malformed"
)

// Assets holds the built-in catalog.
//
//go:embed assets/internal-messages.yaml
var Assets embed.FS

// Catalog maps dotted keys to message strings. A nil *Catalog is valid and
// answers every lookup with the missing-key placeholder.
type Catalog struct {
	messages *tree.Tree
}

// New wraps an already loaded tree.
func New(messages *tree.Tree) *Catalog {
	if messages == nil {
		messages = tree.New()
	}
	return &Catalog{messages: messages}
}

// Load reads a catalog document from fsys.
func Load(ctx context.Context, fsys fs.FS, path string) (*Catalog, error) {
	t, err := sourcefile.NewFS(fsys, path, sourcefile.Options{Required: true}).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load internal messages: %w", err)
	}
	return New(t), nil
}

// LoadDefault reads the built-in catalog.
func LoadDefault() (*Catalog, error) {
	return Load(context.Background(), Assets, DefaultPath)
}

// Log returns the message for a log line.
func (c *Catalog) Log(key string) string {
	return c.lookup(key)
}

// Plain returns the message as plain text.
func (c *Catalog) Plain(key string) string {
	return c.lookup(key)
}

// Format looks up key and formats it with args using fmt.Sprintf verbs.
// Placeholders are returned unformatted.
func (c *Catalog) Format(key string, args ...any) string {
	msg, ok := c.find(key)
	if !ok {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Has reports whether key resolves to a message.
func (c *Catalog) Has(key string) bool {
	_, ok := c.find(key)
	return ok
}

// Missing returns the placeholder used for an absent key.
func Missing(key string) string {
	return fmt.Sprintf(keyMissing, key)
}

// Malformed returns the placeholder used for a key that does not hold text.
func Malformed(key string) string {
	return fmt.Sprintf(textMalformed, key)
}

func (c *Catalog) lookup(key string) string {
	msg, _ := c.find(key)
	return msg
}

func (c *Catalog) find(key string) (string, bool) {
	if c == nil || c.messages == nil {
		return Missing(key), false
	}

	val, ok := c.messages.Get(key)
	if !ok {
		return Missing(key), false
	}

	switch v := val.(type) {
	case string:
		return v, true
	case map[string]any, []any, nil:
		return Malformed(key), false
	default:
		return fmt.Sprint(v), true
	}
}
