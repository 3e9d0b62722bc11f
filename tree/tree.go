package tree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pxlpowered/foundations/internal/normalize"
	"gopkg.in/yaml.v3"
)

// Errors returned by tree operations.
var (
	// ErrNotMapping is returned when a document's root is not a mapping.
	ErrNotMapping = errors.New("tree: document root is not a mapping")

	// ErrInvalidPath is returned for empty paths or paths with empty segments.
	ErrInvalidPath = errors.New("tree: invalid key path")
)

// Tree is a hierarchical key-value document with comments.
// The zero value is not usable; create trees with New, Parse, or FromValue.
// A Tree is not safe for concurrent mutation.
type Tree struct {
	doc *yaml.Node
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{doc: newDocument(newMapping())}
}

// FromNode wraps a decoded YAML node. Document nodes, mapping nodes, and
// empty or null documents are accepted; anything else yields ErrNotMapping.
// Merge keys (<<) are expanded in place into the pairs they refer to.
func FromNode(n *yaml.Node) (*Tree, error) {
	if n == nil || n.Kind == 0 {
		return New(), nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return New(), nil
		}
		root := resolve(n.Content[0])
		if isNull(root) {
			doc := newDocument(newMapping())
			doc.HeadComment = n.HeadComment
			doc.FootComment = n.FootComment
			return &Tree{doc: doc}, nil
		}
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: found %s", ErrNotMapping, kindName(root.Kind))
		}
		expandMerges(root, make(map[*yaml.Node]bool))
		n.Content[0] = root
		return &Tree{doc: n}, nil
	case yaml.MappingNode:
		expandMerges(n, make(map[*yaml.Node]bool))
		return &Tree{doc: newDocument(n)}, nil
	default:
		return nil, fmt.Errorf("%w: found %s", ErrNotMapping, kindName(n.Kind))
	}
}

// FromValue builds a tree from a decoded map. Keys are emitted in sorted order.
func FromValue(m map[string]any) (*Tree, error) {
	n, err := valueToNode(m)
	if err != nil {
		return nil, err
	}
	return &Tree{doc: newDocument(n)}, nil
}

// Node returns the underlying YAML document node.
func (t *Tree) Node() *yaml.Node {
	return t.doc
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	return len(t.root().Content) / 2
}

// Get returns the decoded value at path. Mappings decode to map[string]any,
// sequences to []any, integers to int and floats to float64.
func (t *Tree) Get(path string) (any, bool) {
	_, v, ok := t.lookup(path)
	if !ok {
		return nil, false
	}

	var out any
	if err := v.Decode(&out); err != nil {
		return nil, false
	}
	return out, true
}

// GetString returns the value at path if it is a string.
func (t *Tree) GetString(path string) (string, bool) {
	val, ok := t.Get(path)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Has reports whether path exists.
func (t *Tree) Has(path string) bool {
	_, _, ok := t.lookup(path)
	return ok
}

// Set stores value at path, creating intermediate mappings as needed and
// replacing non-mapping intermediates. A *Tree value is copied in as a subtree.
func (t *Tree) Set(path string, value any) error {
	parts, ok := normalize.SplitPath(path)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	var node *yaml.Node
	if sub, isTree := value.(*Tree); isTree {
		node = cloneNode(sub.root())
	} else {
		var err error
		node, err = valueToNode(value)
		if err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}

	cur := t.root()
	for _, part := range parts[:len(parts)-1] {
		idx := indexOf(cur, part)
		if idx < 0 {
			next := newMapping()
			cur.Content = append(cur.Content, keyNode(part), next)
			cur = next
			continue
		}
		next := resolve(cur.Content[idx+1])
		if next.Kind != yaml.MappingNode || next != cur.Content[idx+1] {
			// Aliases are materialized so writes never leak into the anchor.
			if next.Kind == yaml.MappingNode {
				next = cloneNode(next)
			} else {
				next = newMapping()
			}
			cur.Content[idx+1] = next
		}
		cur = next
	}

	last := parts[len(parts)-1]
	if idx := indexOf(cur, last); idx >= 0 {
		if node.LineComment == "" {
			node.LineComment = cur.Content[idx+1].LineComment
		}
		cur.Content[idx+1] = node
		return nil
	}
	cur.Content = append(cur.Content, keyNode(last), node)
	return nil
}

// Delete removes path. It reports whether anything was removed.
func (t *Tree) Delete(path string) bool {
	parts, ok := normalize.SplitPath(path)
	if !ok {
		return false
	}

	cur := t.root()
	for _, part := range parts[:len(parts)-1] {
		idx := indexOf(cur, part)
		if idx < 0 {
			return false
		}
		cur = resolve(cur.Content[idx+1])
		if cur.Kind != yaml.MappingNode {
			return false
		}
	}

	idx := indexOf(cur, parts[len(parts)-1])
	if idx < 0 {
		return false
	}
	cur.Content = append(cur.Content[:idx], cur.Content[idx+2:]...)
	return true
}

// Comment returns the comment attached above the key at path, without the
// leading "#" markers.
func (t *Tree) Comment(path string) string {
	k, _, ok := t.lookup(path)
	if !ok || k == nil {
		return ""
	}
	return stripComment(k.HeadComment)
}

// SetComment attaches a comment above the key at path. Multi-line comments
// are split on newlines.
func (t *Tree) SetComment(path, comment string) error {
	k, _, ok := t.lookup(path)
	if !ok || k == nil {
		return fmt.Errorf("%w: %q not found", ErrInvalidPath, path)
	}
	k.HeadComment = formatComment(comment)
	return nil
}

// Keys returns the leaf key paths in document order. Empty mappings count as
// leaves.
//
// A literal key containing a dot ("a.b") yields the same path as the nested
// key a -> b; such a path is reported once, at its first position. Get and
// Set always address the nested form.
func (t *Tree) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	walkLeaves(t.root(), "", func(path string, _ *yaml.Node) {
		if !seen[path] {
			seen[path] = true
			keys = append(keys, path)
		}
	})
	return keys
}

// Map decodes the whole tree into nested maps.
func (t *Tree) Map() map[string]any {
	m := make(map[string]any)
	if err := t.root().Decode(&m); err != nil {
		return make(map[string]any)
	}
	return m
}

// Flatten returns the tree as a single-level map with dot-separated keys.
// When a literal dotted key collides with a nested path, the value that comes
// last in the document wins.
func (t *Tree) Flatten() map[string]any {
	result := make(map[string]any)
	walkLeaves(t.root(), "", func(path string, v *yaml.Node) {
		var out any
		if err := v.Decode(&out); err == nil {
			result[path] = out
		}
	})
	return result
}

// Clone returns a deep copy of t.
func (t *Tree) Clone() *Tree {
	return &Tree{doc: cloneNode(t.doc)}
}

func (t *Tree) root() *yaml.Node {
	return t.doc.Content[0]
}

func (t *Tree) lookup(path string) (key, value *yaml.Node, ok bool) {
	parts, valid := normalize.SplitPath(path)
	if !valid {
		return nil, nil, false
	}

	cur := t.root()
	for i, part := range parts {
		if cur.Kind != yaml.MappingNode {
			return nil, nil, false
		}
		idx := indexOf(cur, part)
		if idx < 0 {
			return nil, nil, false
		}
		if i == len(parts)-1 {
			return cur.Content[idx], resolve(cur.Content[idx+1]), true
		}
		cur = resolve(cur.Content[idx+1])
	}
	return nil, nil, false
}

func walkLeaves(n *yaml.Node, prefix string, fn func(path string, v *yaml.Node)) {
	n = resolve(n)
	if n.Kind != yaml.MappingNode || (len(n.Content) == 0 && prefix != "") {
		if prefix != "" {
			fn(prefix, n)
		}
		return
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		walkLeaves(n.Content[i+1], normalize.JoinPath(prefix, n.Content[i].Value), fn)
	}
}

func stripComment(c string) string {
	if c == "" {
		return ""
	}
	lines := strings.Split(c, "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(strings.TrimSpace(line), "#")
		lines[i] = strings.TrimPrefix(line, " ")
	}
	return strings.Join(lines, "\n")
}

func formatComment(c string) string {
	if c == "" {
		return ""
	}
	lines := strings.Split(c, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			lines[i] = "# " + line
		}
	}
	return strings.Join(lines, "\n")
}

func collectLeaves(n *yaml.Node, prefix string, out *[]string) {
	walkLeaves(n, prefix, func(path string, _ *yaml.Node) {
		*out = append(*out, path)
	})
}
