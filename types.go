package foundations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pxlpowered/foundations/tree"
	"go.uber.org/zap"
)

// Source provides default configuration data (embedded assets, files, env vars, remote documents).
// Sources are merged over the configuration in the order they were added.
type Source interface {
	// Load returns the source's document. Missing optional sources should return an empty tree.
	Load(ctx context.Context) (*tree.Tree, error)

	// Name identifies the source in logs and provenance (e.g., "embed:defaults.yaml").
	Name() string
}

// Configuration is the common surface of transient and persistent configurations.
type Configuration interface {
	// ID is assigned at build time and appears in every log line as config_id.
	ID() uuid.UUID

	// Load rebuilds the tree. It never fails; failures are logged and recorded in LastLoad.
	Load(ctx context.Context)

	// Get returns the tree of the last completed load, or false before the first one.
	Get() (*tree.Tree, bool)

	// Defaults returns a copy of the ordered default sources.
	Defaults() []Source

	// Provenance maps every leaf key of the current tree to the source that last wrote it.
	Provenance() *Provenance

	// LastLoad reports the per-source outcome of the most recent Load.
	LastLoad() LoadReport
}

// LoggerProvider is anything that owns a logger a configuration can borrow.
type LoggerProvider interface {
	Logger() *zap.Logger
}

// LoadReport is the outcome of one Load call.
type LoadReport struct {
	At        time.Time
	Merged    []string       // Names of sources merged, in order
	Failed    []*SourceError // Sources skipped because they failed
	BaseError error          // Set when the persistent base file could not be read
}

// OK reports whether every step of the load succeeded.
func (r LoadReport) OK() bool {
	return r.BaseError == nil && len(r.Failed) == 0
}
