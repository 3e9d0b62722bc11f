package foundations

import (
	"context"
	"errors"
	"testing"

	"github.com/pxlpowered/foundations/message"
	"github.com/pxlpowered/foundations/tree"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// staticSource returns a fixed document.
type staticSource struct {
	name  string
	data  map[string]any
	calls int
}

func (s *staticSource) Load(ctx context.Context) (*tree.Tree, error) {
	s.calls++
	return tree.FromValue(s.data)
}

func (s *staticSource) Name() string { return s.name }

func static(name string, data map[string]any) *staticSource {
	return &staticSource{name: name, data: data}
}

// failingSource always fails.
type failingSource struct {
	name string
	err  error
}

func (s *failingSource) Load(ctx context.Context) (*tree.Tree, error) {
	return nil, s.err
}

func (s *failingSource) Name() string { return s.name }

var errBroken = errors.New("broken source")

func failing(name string) *failingSource {
	return &failingSource{name: name, err: errBroken}
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func catalog(t *testing.T) *message.Catalog {
	t.Helper()
	c, err := message.LoadDefault()
	require.NoError(t, err)
	return c
}

type owner struct {
	logger *zap.Logger
}

func (o owner) Logger() *zap.Logger { return o.logger }
