// Package sourcefile loads configuration documents from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml).
// Files can be read from the OS or from any fs.FS (for example an embed.FS).
//
// A Source is a read-only default document:
//
//	source := sourcefile.New("defaults.yaml", sourcefile.Options{Required: true})
//	builder.Default(source)
//
// A Loader is bound to one path and can also write the file back:
//
//	loader := sourcefile.NewLoader("config.yaml", sourcefile.Options{})
//	t, err := loader.Load()
//	err = loader.Save(t)
package sourcefile
