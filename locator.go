package foundations

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pxlpowered/foundations/sourceenv"
	"github.com/pxlpowered/foundations/sourcefile"
	"github.com/pxlpowered/foundations/sourcehttp"
)

// ErrInvalidLocator is returned by ParseSource for locators it cannot resolve.
var ErrInvalidLocator = errors.New("foundations: invalid source locator")

// LocatorOption configures the sources ParseSource creates.
type LocatorOption func(*locatorConfig)

type locatorConfig struct {
	fsys fs.FS
	file sourcefile.Options
	http sourcehttp.Options
}

// WithFS sets the file system that embed: locators read from.
func WithFS(fsys fs.FS) LocatorOption {
	return func(cfg *locatorConfig) {
		cfg.fsys = fsys
	}
}

// WithFileOptions sets the options for file and embed sources.
func WithFileOptions(opts sourcefile.Options) LocatorOption {
	return func(cfg *locatorConfig) {
		cfg.file = opts
	}
}

// WithHTTPOptions sets the options for http and https sources.
func WithHTTPOptions(opts sourcehttp.Options) LocatorOption {
	return func(cfg *locatorConfig) {
		cfg.http = opts
	}
}

// ParseSource resolves a locator string to a Source.
//
//	embed:assets/defaults.yaml   file inside the fs.FS given by WithFS
//	env:APP_                     environment variables with the prefix, APP_DB__HOST → db.host
//	file:///etc/app/config.yaml  local file
//	/etc/app/config.yaml         local file
//	https://host/defaults.json   remote document
func ParseSource(locator string, opts ...LocatorOption) (Source, error) {
	var cfg locatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	loc := strings.TrimSpace(locator)
	if loc == "" {
		return nil, fmt.Errorf("%w: empty locator", ErrInvalidLocator)
	}

	if p, ok := strings.CutPrefix(loc, "embed:"); ok {
		if cfg.fsys == nil {
			return nil, fmt.Errorf("%w: %s: no file system configured", ErrInvalidLocator, loc)
		}
		if !fs.ValidPath(p) {
			return nil, fmt.Errorf("%w: %s: invalid embedded path", ErrInvalidLocator, loc)
		}
		return sourcefile.NewFS(cfg.fsys, p, cfg.file), nil
	}

	if prefix, ok := strings.CutPrefix(loc, "env:"); ok {
		return sourceenv.New(sourceenv.Options{Prefix: prefix}), nil
	}

	if !strings.Contains(loc, "://") {
		return sourcefile.New(loc, cfg.file), nil
	}

	u, err := url.Parse(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidLocator, loc, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		if u.Host != "" && u.Host != "localhost" {
			return nil, fmt.Errorf("%w: %s: remote file hosts are not supported", ErrInvalidLocator, loc)
		}
		if u.Path == "" {
			return nil, fmt.Errorf("%w: %s: missing path", ErrInvalidLocator, loc)
		}
		return sourcefile.New(filepath.FromSlash(u.Path), cfg.file), nil
	case "http", "https":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %s: missing host", ErrInvalidLocator, loc)
		}
		return sourcehttp.New(loc, cfg.http), nil
	default:
		return nil, fmt.Errorf("%w: %s: unsupported scheme %q", ErrInvalidLocator, loc, u.Scheme)
	}
}
