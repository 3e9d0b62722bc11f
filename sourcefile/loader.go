package sourcefile

import (
	"os"
	"path/filepath"

	"github.com/pxlpowered/foundations/tree"
	"github.com/samber/oops"
)

// Loader reads and writes the document at a single path.
// A missing file loads as an empty tree unless Options.Required is set.
type Loader struct {
	path string
	opts Options
}

// NewLoader creates a loader bound to path.
func NewLoader(path string, opts Options) *Loader {
	return &Loader{
		path: path,
		opts: withDefaults(opts),
	}
}

// Path returns the bound path.
func (l *Loader) Path() string {
	return l.path
}

// Load reads and parses the bound file.
func (l *Loader) Load() (*tree.Tree, error) {
	return read(l.path, l.opts)
}

// Save encodes t and replaces the bound file. Parent directories are created
// as needed. The new content is written to a temporary file in the same
// directory and renamed over the target.
func (l *Loader) Save(t *tree.Tree) error {
	errb := oops.In("sourcefile").With("path", l.path)

	if l.opts.FS != nil {
		return errb.Wrap(ErrReadOnly)
	}

	format, err := formatFor(l.path, l.opts)
	if err != nil {
		return errb.Wrap(err)
	}

	data, err := t.Encode(format)
	if err != nil {
		return errb.Wrapf(err, "encode config file %s", l.path)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, l.opts.DirMode); err != nil {
		return errb.Wrapf(err, "create config directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(l.path)+".*")
	if err != nil {
		return errb.Wrapf(err, "create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errb.Wrapf(err, "write config file %s", l.path)
	}
	if err := tmp.Close(); err != nil {
		return errb.Wrapf(err, "write config file %s", l.path)
	}
	if err := os.Chmod(tmpName, l.opts.FileMode); err != nil {
		return errb.Wrapf(err, "chmod config file %s", l.path)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		return errb.Wrapf(err, "replace config file %s", l.path)
	}
	return nil
}
