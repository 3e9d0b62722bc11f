package foundations

// BaseSourceName is the provenance name for values that came from the base
// document (the persistent file, or the empty starting tree).
const BaseSourceName = "base"

// Provenance contains source information for configuration keys.
type Provenance struct {
	Fields []FieldProvenance
}

// FieldProvenance describes where a key's value came from.
type FieldProvenance struct {
	KeyPath    string // Dot notation (e.g., "database.host")
	SourceName string // Source identifier (e.g., "env:APP_")
}

// SourceOf returns the name of the source that last wrote key.
func (p *Provenance) SourceOf(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, f := range p.Fields {
		if f.KeyPath == key {
			return f.SourceName, true
		}
	}
	return "", false
}

// index returns key → source name.
func (p *Provenance) index() map[string]string {
	out := make(map[string]string)
	if p == nil {
		return out
	}
	for _, f := range p.Fields {
		out[f.KeyPath] = f.SourceName
	}
	return out
}

// buildProvenance attributes each leaf in keys to the last writer recorded in
// writers, falling back to the base document.
func buildProvenance(keys []string, writers map[string]string) *Provenance {
	prov := &Provenance{Fields: make([]FieldProvenance, 0, len(keys))}
	for _, key := range keys {
		name, ok := writers[key]
		if !ok {
			name = BaseSourceName
		}
		prov.Fields = append(prov.Fields, FieldProvenance{KeyPath: key, SourceName: name})
	}
	return prov
}
