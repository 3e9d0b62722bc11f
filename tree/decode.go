package tree

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Unmarshal decodes the tree into v, which must be a pointer.
// Struct fields are matched with the `config` tag; strings decode into
// time.Duration and encoding.TextUnmarshaler fields. Input is weakly typed so
// values from environment variables ("8080", "true") decode into numbers and
// booleans.
func (t *Tree) Unmarshal(v any) error {
	return t.UnmarshalKey("", v)
}

// UnmarshalKey decodes the subtree at path into v. An empty path decodes the
// whole tree.
func (t *Tree) UnmarshalKey(path string, v any) error {
	var input any = t.Map()
	if path != "" {
		val, ok := t.Get(path)
		if !ok {
			return fmt.Errorf("%w: %q not found", ErrInvalidPath, path)
		}
		input = val
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           v,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
