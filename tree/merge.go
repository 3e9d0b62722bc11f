package tree

import (
	"github.com/pxlpowered/foundations/internal/normalize"
	"gopkg.in/yaml.v3"
)

// MergeFrom overlays src onto t and returns the leaf paths it wrote.
// Keys missing from t are copied; when both sides hold a mapping the merge
// recurses; otherwise the value from src replaces the one in t. Comments on
// t are kept unless src carries its own. src is not modified.
func (t *Tree) MergeFrom(src *Tree) []string {
	if src == nil {
		return nil
	}

	var written []string
	mergeMapping(t.root(), src.root(), "", &written)
	if t.doc.HeadComment == "" {
		t.doc.HeadComment = src.doc.HeadComment
	}
	return written
}

func mergeMapping(dst, src *yaml.Node, prefix string, written *[]string) {
	src = resolve(src)
	for i := 0; i+1 < len(src.Content); i += 2 {
		sk := src.Content[i]
		sv := resolve(src.Content[i+1])
		path := normalize.JoinPath(prefix, sk.Value)

		idx := indexOf(dst, sk.Value)
		if idx < 0 {
			dst.Content = append(dst.Content, cloneNode(sk), cloneNode(sv))
			collectLeaves(sv, path, written)
			continue
		}

		dk := dst.Content[idx]
		if sk.HeadComment != "" {
			dk.HeadComment = sk.HeadComment
		}

		dv := dst.Content[idx+1]
		if resolve(dv).Kind == yaml.MappingNode && sv.Kind == yaml.MappingNode {
			if dv.Kind == yaml.AliasNode {
				dv = cloneNode(dv)
				dst.Content[idx+1] = dv
			}
			mergeMapping(dv, sv, path, written)
			continue
		}

		nv := cloneNode(sv)
		if nv.LineComment == "" {
			nv.LineComment = dv.LineComment
		}
		dst.Content[idx+1] = nv
		collectLeaves(sv, path, written)
	}
}
