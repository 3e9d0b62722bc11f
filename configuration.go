package foundations

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pxlpowered/foundations/message"
	"github.com/pxlpowered/foundations/tree"
	"go.uber.org/zap"
)

// state is shared by transient and persistent configurations.
// Reads are safe from any goroutine; Load and Save should not race each other.
type state struct {
	id       uuid.UUID
	logger   *zap.Logger
	messages *message.Catalog
	defaults []Source

	mu         sync.RWMutex
	data       *tree.Tree
	provenance *Provenance
	report     LoadReport
}

func (s *state) init(logger *zap.Logger, messages *message.Catalog, defaults []Source) {
	s.id = uuid.New()
	s.logger = logger.With(zap.Stringer("config_id", s.id))
	s.messages = messages
	s.defaults = slices.Clone(defaults)
}

// ID returns the identifier assigned at build time.
func (s *state) ID() uuid.UUID {
	return s.id
}

// Get returns the current tree. The tree is shared with the configuration;
// edits are kept until the next Load and are written by Save.
func (s *state) Get() (*tree.Tree, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.data != nil
}

// Defaults returns a copy of the default sources in merge order.
func (s *state) Defaults() []Source {
	return slices.Clone(s.defaults)
}

// Provenance returns key attribution for the current tree, or nil before the first load.
func (s *state) Provenance() *Provenance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provenance
}

// LastLoad returns the outcome of the most recent Load.
func (s *state) LastLoad() LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// mergeDefaults overlays every default source onto data in order. A failing
// source is logged, recorded, and skipped; the rest are still merged.
// writers receives the last source name for each leaf written.
func (s *state) mergeDefaults(ctx context.Context, data *tree.Tree, writers map[string]string) LoadReport {
	report := LoadReport{At: time.Now()}

	for _, src := range s.defaults {
		name := src.Name()
		s.logger.Debug(s.messages.Log("configuration.asset.load.attempt"), zap.String("source", name))

		overlay, err := loadSource(ctx, src)
		if err != nil {
			serr := &SourceError{ConfigID: s.id, Source: name, Err: err}
			report.Failed = append(report.Failed, serr)
			s.logger.Error(s.messages.Log("configuration.asset.load.error.debug"),
				zap.String("source", name),
				zap.Error(err),
			)
			continue
		}

		for _, key := range data.MergeFrom(overlay) {
			writers[key] = name
		}
		report.Merged = append(report.Merged, name)
	}

	return report
}

// loadSource calls src.Load and turns a panic into an error so one broken
// source cannot abort the load.
func loadSource(ctx context.Context, src Source) (t *tree.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()

	t, err = src.Load(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = tree.New()
	}
	return t, nil
}

// commit publishes a completed load.
func (s *state) commit(data *tree.Tree, writers map[string]string, report LoadReport) {
	prov := buildProvenance(data.Keys(), writers)

	s.mu.Lock()
	s.data = data
	s.provenance = prov
	s.report = report
	s.mu.Unlock()
}

// fail records a load that left the previous tree in place.
func (s *state) fail(report LoadReport) {
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
}
