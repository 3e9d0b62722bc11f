package sourcefile

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pxlpowered/foundations/tree"
	"github.com/samber/oops"
)

// ErrReadOnly is returned when saving through a loader backed by an fs.FS.
var ErrReadOnly = errors.New("sourcefile: file system is read-only")

// Options configures file source behavior.
type Options struct {
	// Format: yaml, json, or toml. Auto-detected from extension if empty.
	Format tree.Format

	// Required: if true, missing files cause an error. Default: false (returns empty tree).
	Required bool

	// FS, when set, is used for reads instead of the OS file system.
	FS fs.FS

	// FileMode is the permission used when saving. Default: 0644.
	FileMode os.FileMode

	// DirMode is the permission for parent directories created on save. Default: 0755.
	DirMode os.FileMode
}

var defaultOptions = Options{
	FileMode: 0o644,
	DirMode:  0o755,
}

func withDefaults(opts Options) Options {
	// Only zero-valued fields are filled; mergo cannot fail on two values of the same struct type.
	_ = mergo.Merge(&opts, defaultOptions)
	return opts
}

// Source is a read-only document at a path.
type Source struct {
	path string
	opts Options
}

// New creates a file-based configuration source.
func New(path string, opts Options) *Source {
	return &Source{
		path: path,
		opts: withDefaults(opts),
	}
}

// NewFS creates a source that reads path from fsys.
func NewFS(fsys fs.FS, path string, opts Options) *Source {
	opts.FS = fsys
	return New(path, opts)
}

// Load reads and parses the file.
func (f *Source) Load(ctx context.Context) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return read(f.path, f.opts)
}

// Name returns a human-readable identifier for this source.
func (f *Source) Name() string {
	if f.opts.FS != nil {
		return "embed:" + f.path
	}
	return "file:" + filepath.Base(f.path)
}

// Path returns the path the source reads.
func (f *Source) Path() string {
	return f.path
}

func read(p string, opts Options) (*tree.Tree, error) {
	errb := oops.In("sourcefile").With("path", p)

	format, err := formatFor(p, opts)
	if err != nil {
		return nil, errb.Wrap(err)
	}

	var data []byte
	if opts.FS != nil {
		data, err = fs.ReadFile(opts.FS, path.Clean(filepath.ToSlash(p)))
	} else {
		data, err = os.ReadFile(p)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if opts.Required {
				return nil, errb.Wrapf(err, "required config file not found: %s", p)
			}
			return tree.New(), nil
		}
		return nil, errb.Wrapf(err, "read config file %s", p)
	}

	t, err := tree.Parse(data, format)
	if err != nil {
		return nil, errb.Wrapf(err, "parse config file %s", p)
	}
	return t, nil
}

func formatFor(p string, opts Options) (tree.Format, error) {
	if opts.Format != "" {
		return tree.ParseFormat(string(opts.Format))
	}
	if format, ok := tree.FormatFromPath(p); ok {
		return format, nil
	}
	return tree.ParseFormat(filepath.Ext(p))
}
