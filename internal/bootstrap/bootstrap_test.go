package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pxlpowered/foundations/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestStart_FirstRunWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	logger, logs := observed()

	p := New(Options{Dir: dir}, logger)
	require.NoError(t, p.Start(context.Background()))

	assert.Equal(t, "IGC", p.Status().Token())
	assert.False(t, p.Status().IsErrored())
	assert.NotNil(t, p.Messages())
	require.NotNil(t, p.Global())
	assert.Empty(t, p.Configs())

	settings := p.Settings()
	assert.Equal(t, "en_US", settings.Language)
	assert.False(t, settings.Debug)

	raw, err := os.ReadFile(filepath.Join(dir, GlobalFile))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "language: en_US")
	assert.Contains(t, string(raw), "# Language used for player-facing messages.")

	assert.Equal(t, 3, logs.FilterMessage("Bootstrap phase complete").Len())
}

func TestStart_LoadsMainConfigs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalFile), []byte("configs:\n  - modules\n  - ranks\n"), 0644))
	logger, _ := observed()

	p := New(Options{Dir: dir}, logger)
	require.NoError(t, p.Start(context.Background()))

	assert.Equal(t, []string{"modules", "ranks"}, p.Settings().Configs)

	configs := p.Configs()
	require.Len(t, configs, 2)

	modules, ok := configs["modules"].Get()
	require.True(t, ok)
	chat, _ := modules.Get("modules.chat")
	assert.Equal(t, true, chat)

	ranks, ok := configs["ranks"].Get()
	require.True(t, ok)
	assert.Equal(t, 0, ranks.Len(), "no built-in defaults for ranks")

	assert.FileExists(t, filepath.Join(dir, "modules.yaml"))
	assert.FileExists(t, filepath.Join(dir, "ranks.yaml"))
}

func TestStart_ExtraDefaults(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(extra, []byte("language: de_DE\ndebug: true\n"), 0644))
	logger, _ := observed()

	p := New(Options{Dir: dir, Defaults: []string{extra}}, logger)
	require.NoError(t, p.Start(context.Background()))

	assert.Equal(t, "de_DE", p.Settings().Language)
	assert.True(t, p.Settings().Debug)

	name, ok := p.Global().Provenance().SourceOf("language")
	require.True(t, ok)
	assert.Equal(t, "file:override.yaml", name)
}

func TestStart_CustomAssets(t *testing.T) {
	dir := t.TempDir()
	assets := fstest.MapFS{
		"defaults/global.yaml":  &fstest.MapFile{Data: []byte("configs: [economy]\n")},
		"defaults/economy.yaml": &fstest.MapFile{Data: []byte("currency: coins\n")},
	}
	logger, _ := observed()

	p := New(Options{Dir: dir, Assets: assets}, logger)
	require.NoError(t, p.Start(context.Background()))

	economy, ok := p.Configs()["economy"].Get()
	require.True(t, ok)
	currency, _ := economy.GetString("currency")
	assert.Equal(t, "coins", currency)
}

func TestStart_MissingMessagesIsFatal(t *testing.T) {
	logger, logs := observed()

	p := New(Options{Dir: t.TempDir(), MessagesFS: fstest.MapFS{}, MessagesPath: "messages.yaml"}, logger)
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal-messages")

	assert.True(t, p.Status().IsErrored())
	assert.Equal(t, "***", p.Status().Token())
	assert.Nil(t, p.Messages())

	fatal := logs.FilterMessage("A fatal error occurred. foundations will now become ineffective.").All()
	require.Len(t, fatal, 1)
	assert.Equal(t, "***", fatal[0].ContextMap()["status"])
}

func TestStart_CorruptGlobalRollsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalFile), []byte("configs: [unclosed\n\t\tx"), 0644))
	logger, logs := observed()

	p := New(Options{Dir: dir}, logger)
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global-config")

	assert.True(t, p.Status().IsErrored())
	assert.Equal(t, uint64(0), p.Status().Bits(), "rollback clears every phase")
	assert.Nil(t, p.Messages())
	assert.Nil(t, p.Global())

	fatal := logs.FilterMessage("A fatal error occurred. foundations will now become ineffective.").All()
	require.Len(t, fatal, 1)
	assert.Equal(t, "I**", fatal[0].ContextMap()["status"])
	assert.Equal(t, 1, logs.FilterMessage("Releasing partially initialized state").Len())
}

func TestStart_InvalidConfigName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalFile), []byte("configs: [../escape]\n"), 0644))
	logger, logs := observed()

	p := New(Options{Dir: dir}, logger)
	err := p.Start(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfigName)

	fatal := logs.FilterMessage("A fatal error occurred. foundations will now become ineffective.").All()
	require.Len(t, fatal, 1)
	assert.Equal(t, "IG*", fatal[0].ContextMap()["status"])
	assert.Empty(t, p.Configs())
}

func TestStart_Restart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalFile), []byte("configs: [bad/name]\n"), 0644))
	logger, _ := observed()

	p := New(Options{Dir: dir}, logger)
	require.Error(t, p.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalFile), []byte("configs: [modules]\n"), 0644))
	require.NoError(t, p.Start(context.Background()))
	assert.False(t, p.Status().IsErrored())
	assert.True(t, p.Status().IsPhaseSet(status.MainConfigs))
	assert.Len(t, p.Configs(), 1)
}

func TestNew_NilLogger(t *testing.T) {
	p := New(Options{Dir: t.TempDir()}, nil)
	assert.NotNil(t, p.Logger())
	assert.Equal(t, ID, p.ID())
}
