package tree

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	tagNull      = "!!null"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagStr       = "!!str"
	tagTimestamp = "!!timestamp"
	tagMap       = "!!map"
	tagSeq       = "!!seq"
	tagMerge     = "!!merge"
)

func newDocument(root *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap}
}

func keyNode(key string) *yaml.Node {
	return scalar(tagStr, key)
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// valueToNode converts decoded Go values (from JSON, TOML or callers) into
// YAML nodes with explicit tags, so every codec reads back the same types.
func valueToNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil:
		return scalar(tagNull, "null"), nil
	case *yaml.Node:
		return cloneNode(x), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		m := newMapping()
		for _, k := range keys {
			child, err := valueToNode(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", k, err)
			}
			m.Content = append(m.Content, keyNode(k), child)
		}
		return m, nil
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq}
		for i, item := range x {
			child, err := valueToNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	case string:
		return scalar(tagStr, x), nil
	case bool:
		return scalar(tagBool, strconv.FormatBool(x)), nil
	case int:
		return scalar(tagInt, strconv.Itoa(x)), nil
	case int32:
		return scalar(tagInt, strconv.FormatInt(int64(x), 10)), nil
	case int64:
		return scalar(tagInt, strconv.FormatInt(x, 10)), nil
	case uint:
		return scalar(tagInt, strconv.FormatUint(uint64(x), 10)), nil
	case uint32:
		return scalar(tagInt, strconv.FormatUint(uint64(x), 10)), nil
	case uint64:
		return scalar(tagInt, strconv.FormatUint(x, 10)), nil
	case float32:
		return scalar(tagFloat, formatFloat(float64(x))), nil
	case float64:
		return scalar(tagFloat, formatFloat(x)), nil
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return scalar(tagInt, x.String()), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return scalar(tagFloat, formatFloat(f)), nil
	case time.Time:
		return scalar(tagTimestamp, x.Format(time.RFC3339Nano)), nil
	case time.Duration:
		return scalar(tagStr, x.String()), nil
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return nil, err
		}
		return scalar(tagStr, string(b)), nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull
}

func indexOf(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// cloneNode deep-copies n, materializing aliases and dropping anchors so the
// copy can be grafted into another document.
func cloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	n = resolve(n)

	c := *n
	c.Anchor = ""
	c.Alias = nil
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}
	if c.Kind == yaml.MappingNode {
		expandMapping(&c)
	}
	return &c
}

// expandMerges replaces every YAML merge key (<<) reachable from n with the
// key/value pairs it stands for, so lookups agree with decoding.
func expandMerges(n *yaml.Node, seen map[*yaml.Node]bool) {
	n = resolve(n)
	if n == nil || seen[n] {
		return
	}
	seen[n] = true

	for _, child := range n.Content {
		expandMerges(child, seen)
	}
	if n.Kind == yaml.MappingNode {
		expandMapping(n)
	}
}

// expandMapping inlines the merge keys of a single mapping. Explicit keys win
// over merged ones wherever they appear; within a merge sequence the first
// mapping that defines a key wins. Merged pairs take the position of the
// merge key and are copied, not aliased.
func expandMapping(m *yaml.Node) {
	hasMerge := false
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if isMergeKey(m.Content[i]) {
			hasMerge = true
			continue
		}
		explicit[m.Content[i].Value] = true
	}
	if !hasMerge {
		return
	}

	added := make(map[string]bool)
	out := make([]*yaml.Node, 0, len(m.Content))
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if !isMergeKey(k) {
			out = append(out, k, v)
			continue
		}

		for _, src := range mergeSources(v) {
			for j := 0; j+1 < len(src.Content); j += 2 {
				key := src.Content[j].Value
				if explicit[key] || added[key] {
					continue
				}
				added[key] = true
				out = append(out, src.Content[j], src.Content[j+1])
			}
		}
	}
	m.Content = out
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == tagMerge
}

// mergeSources returns the mappings a merge value refers to: a single mapping
// or a sequence of them, in precedence order.
func mergeSources(v *yaml.Node) []*yaml.Node {
	v = resolve(v)
	switch v.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{cloneNode(v)}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range v.Content {
			if r := resolve(item); r.Kind == yaml.MappingNode {
				out = append(out, cloneNode(r))
			}
		}
		return out
	default:
		return nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
