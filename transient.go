package foundations

import (
	"context"

	"github.com/pxlpowered/foundations/tree"
	"go.uber.org/zap"
)

// TransientConfiguration is rebuilt from its default sources on every Load
// and is never written anywhere.
type TransientConfiguration struct {
	state
}

var _ Configuration = (*TransientConfiguration)(nil)

// Load starts from an empty tree, merges every default source in order, and
// replaces the current tree. Edits made through Get are discarded.
func (c *TransientConfiguration) Load(ctx context.Context) {
	c.logger.Debug(c.messages.Log("configuration.load.attempt"))

	data := tree.New()
	writers := make(map[string]string)
	report := c.mergeDefaults(ctx, data, writers)
	c.commit(data, writers, report)

	c.logger.Debug(c.messages.Log("configuration.load.success"),
		zap.Int("merged", len(report.Merged)),
		zap.Int("failed", len(report.Failed)),
	)
}
