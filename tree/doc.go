// Package tree provides the ordered, comment-preserving document that every
// configuration loads into and merges onto.
//
// A Tree is a YAML document whose root is a mapping. Values are addressed by
// dotted paths ("database.pool.max"). Trees can be parsed from and encoded to
// YAML, JSON, or TOML; only YAML keeps comments and key order.
//
// Example:
//
//	base, _ := tree.Parse([]byte("a: 1\nb: 2\n"), tree.YAML)
//	overlay, _ := tree.Parse([]byte(`{"b": 3, "c": 4}`), tree.JSON)
//	base.MergeFrom(overlay) // a: 1, b: 3, c: 4
package tree
