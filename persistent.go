package foundations

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pxlpowered/foundations/sourcefile"
	"go.uber.org/zap"
)

// PersistentConfiguration is backed by a file. Load reads the file and merges
// the default sources over it; Save writes the merged tree back.
type PersistentConfiguration struct {
	state

	path     string
	fileOpts sourcefile.Options

	bind    sync.Once
	loader  atomic.Pointer[sourcefile.Loader]
	saveErr atomic.Pointer[SaveError]
}

var _ Configuration = (*PersistentConfiguration)(nil)

// Path returns the backing file path.
func (c *PersistentConfiguration) Path() string {
	return c.path
}

// Load binds the file loader on first use, reads the file, and merges the
// default sources over it. A missing file reads as an empty document. When
// the file cannot be read or parsed the error is logged, the previous tree is
// kept, and no default source is merged.
func (c *PersistentConfiguration) Load(ctx context.Context) {
	loader := c.bound()
	c.logger.Debug(c.messages.Log("configuration.load.attempt"), zap.String("path", c.path))

	data, err := loader.Load()
	if err != nil {
		berr := &BaseLoadError{ConfigID: c.id, Path: c.path, Err: err}
		c.logger.Error(c.messages.Log("configuration.load.error.debug"),
			zap.String("path", c.path),
			zap.Error(err),
		)
		c.fail(LoadReport{At: time.Now(), BaseError: berr})
		return
	}

	writers := make(map[string]string)
	report := c.mergeDefaults(ctx, data, writers)
	c.commit(data, writers, report)

	c.logger.Debug(c.messages.Log("configuration.load.success"),
		zap.String("path", c.path),
		zap.Int("merged", len(report.Merged)),
		zap.Int("failed", len(report.Failed)),
	)
}

// Save writes the current tree to the backing file. It does nothing before
// the first Load. Failures are logged and kept for SaveErr; they are not
// returned and not retried.
func (c *PersistentConfiguration) Save() {
	loader := c.loader.Load()
	if loader == nil {
		return
	}

	data, ok := c.Get()
	if !ok {
		c.logger.Debug(c.messages.Log("configuration.save.skipped"), zap.String("path", c.path))
		return
	}

	if err := loader.Save(data); err != nil {
		c.saveErr.Store(&SaveError{ConfigID: c.id, Path: c.path, Err: err})
		c.logger.Error(c.messages.Log("configuration.save.error.debug"),
			zap.String("path", c.path),
			zap.Error(err),
		)
		return
	}

	c.saveErr.Store(nil)
	c.logger.Debug(c.messages.Log("configuration.save.success"), zap.String("path", c.path))
}

// SaveErr returns the error from the most recent Save, or nil if it succeeded.
func (c *PersistentConfiguration) SaveErr() error {
	if err := c.saveErr.Load(); err != nil {
		return err
	}
	return nil
}

// bound returns the file loader, creating it on first call. The loader is
// never re-pointed afterwards.
func (c *PersistentConfiguration) bound() *sourcefile.Loader {
	c.bind.Do(func() {
		c.logger.Debug(c.messages.Log("configuration.load.loader-null"), zap.String("path", c.path))
		c.loader.Store(sourcefile.NewLoader(c.path, c.fileOpts))
	})
	return c.loader.Load()
}
