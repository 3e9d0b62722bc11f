// Package bootstrap drives startup: it loads the internal messages, the
// global configuration, and every main configuration the global one names,
// recording each phase in a status.Status and rolling back on failure.
package bootstrap

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pxlpowered/foundations"
	"github.com/pxlpowered/foundations/message"
	"github.com/pxlpowered/foundations/status"
	"go.uber.org/zap"
)

// ID names the component in fatal error logs.
const ID = "foundations"

// GlobalFile is the global configuration's file name inside Options.Dir.
const GlobalFile = "global.yaml"

// Assets holds the built-in default documents, one per configuration.
//
//go:embed defaults/*.yaml
var Assets embed.FS

// ErrInvalidConfigName is returned for main configuration names that are not plain file names.
var ErrInvalidConfigName = errors.New("bootstrap: invalid configuration name")

// Options configures a Plugin.
type Options struct {
	// Dir is the configuration directory. Default: "config".
	Dir string

	// Defaults are extra source locators merged over the global configuration
	// after the built-in defaults.
	Defaults []string

	// Assets provides defaults/<name>.yaml documents. Default: the built-in Assets.
	Assets fs.FS

	// MessagesFS and MessagesPath locate the message catalog. Default: the built-in catalog.
	MessagesFS   fs.FS
	MessagesPath string
}

// GlobalSettings is the decoded global configuration.
type GlobalSettings struct {
	Language string   `config:"language"`
	Debug    bool     `config:"debug"`
	Configs  []string `config:"configs"`
}

// Plugin owns the configurations created during startup.
type Plugin struct {
	opts   Options
	logger *zap.Logger
	status *status.Status

	mu       sync.RWMutex
	messages *message.Catalog
	global   *foundations.PersistentConfiguration
	settings GlobalSettings
	configs  map[string]*foundations.PersistentConfiguration
}

// New creates a Plugin. Nothing is loaded until Start.
func New(opts Options, logger *zap.Logger) *Plugin {
	if opts.Dir == "" {
		opts.Dir = "config"
	}
	if opts.Assets == nil {
		opts.Assets = Assets
	}
	if opts.MessagesFS == nil {
		opts.MessagesFS = message.Assets
		opts.MessagesPath = message.DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Plugin{
		opts:   opts,
		logger: logger,
	}
	p.status = status.New(status.WithRollback(p.rollback))
	return p
}

// ID identifies the plugin.
func (p *Plugin) ID() string { return ID }

// Logger returns the plugin's logger.
func (p *Plugin) Logger() *zap.Logger { return p.logger }

// Status returns the phase tracker.
func (p *Plugin) Status() *status.Status { return p.status }

// Messages returns the loaded catalog, or nil before phase I.
func (p *Plugin) Messages() *message.Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.messages
}

// Global returns the global configuration, or nil before phase G.
func (p *Plugin) Global() *foundations.PersistentConfiguration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.global
}

// Settings returns the decoded global configuration.
func (p *Plugin) Settings() GlobalSettings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Configs returns the main configurations keyed by name.
func (p *Plugin) Configs() map[string]*foundations.PersistentConfiguration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return maps.Clone(p.configs)
}

type phase struct {
	bit status.Phase
	run func(ctx context.Context) error
}

// Start runs every phase in order. On the first failure the plugin is marked
// errored, the fatal error is logged with the status token, everything loaded
// so far is released, and the error is returned.
func (p *Plugin) Start(ctx context.Context) error {
	p.status.Reset()
	p.logger.Info("Starting " + ID)

	phases := []phase{
		{status.InternalMessages, p.loadMessages},
		{status.GlobalConfig, p.loadGlobal},
		{status.MainConfigs, p.loadMainConfigs},
	}

	for _, ph := range phases {
		if msgs := p.Messages(); msgs != nil {
			p.logger.Debug(msgs.Log("plugin.phase.enter"), zap.Stringer("phase", ph.bit))
		}

		if err := ph.run(ctx); err != nil {
			p.logger.Debug(p.Messages().Format("plugin.phase.failed", ph.bit, err))
			err = fmt.Errorf("%s: %w", ph.bit, err)
			p.status.SetErrored(true)
			p.status.OnFatalError(p, err)
			return err
		}

		p.status.SetPhase(ph.bit, true)
		p.logger.Info(p.Messages().Log("plugin.phase.exit"), zap.Stringer("phase", ph.bit))
	}

	return nil
}

func (p *Plugin) loadMessages(ctx context.Context) error {
	msgs, err := message.Load(ctx, p.opts.MessagesFS, p.opts.MessagesPath)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.messages = msgs
	p.mu.Unlock()
	return nil
}

func (p *Plugin) loadGlobal(ctx context.Context) error {
	b := foundations.NewPersistentBuilder(p.Messages()).
		File(filepath.Join(p.opts.Dir, GlobalFile))
	if p.hasAsset(GlobalFile) {
		b.DefaultLocator("embed:"+path.Join("defaults", GlobalFile), foundations.WithFS(p.opts.Assets))
	}
	for _, loc := range p.opts.Defaults {
		b.DefaultLocator(loc, foundations.WithFS(p.opts.Assets))
	}

	global, err := b.BuildFor(p)
	if err != nil {
		return err
	}
	if err := loadAndSave(ctx, global); err != nil {
		return err
	}

	var settings GlobalSettings
	data, _ := global.Get()
	if err := data.Unmarshal(&settings); err != nil {
		return fmt.Errorf("decode %s: %w", GlobalFile, err)
	}

	p.mu.Lock()
	p.global = global
	p.settings = settings
	p.mu.Unlock()
	return nil
}

func (p *Plugin) loadMainConfigs(ctx context.Context) error {
	configs := make(map[string]*foundations.PersistentConfiguration)

	for _, name := range p.Settings().Configs {
		if name == "" || name == "global" || strings.ContainsAny(name, `/\.`) {
			return fmt.Errorf("%w: %q", ErrInvalidConfigName, name)
		}

		file := name + ".yaml"
		b := foundations.NewPersistentBuilder(p.Messages()).
			File(filepath.Join(p.opts.Dir, file))
		if p.hasAsset(file) {
			b.DefaultLocator("embed:"+path.Join("defaults", file), foundations.WithFS(p.opts.Assets))
		}

		cfg, err := b.BuildFor(p)
		if err != nil {
			return err
		}
		if err := loadAndSave(ctx, cfg); err != nil {
			return err
		}
		configs[name] = cfg
	}

	p.mu.Lock()
	p.configs = configs
	p.mu.Unlock()
	return nil
}

// loadAndSave loads cfg and writes it back so new default keys reach the file.
func loadAndSave(ctx context.Context, cfg *foundations.PersistentConfiguration) error {
	cfg.Load(ctx)
	if err := cfg.LastLoad().BaseError; err != nil {
		return err
	}
	cfg.Save()
	return cfg.SaveErr()
}

func (p *Plugin) hasAsset(file string) bool {
	_, err := fs.Stat(p.opts.Assets, path.Join("defaults", file))
	return err == nil
}

// rollback releases everything loaded so far and clears the phase bits.
func (p *Plugin) rollback() {
	p.logger.Warn(p.Messages().Log("plugin.rollback"), zap.String("status", p.status.Token()))

	p.mu.Lock()
	p.messages = nil
	p.global = nil
	p.settings = GlobalSettings{}
	p.configs = nil
	p.mu.Unlock()

	for _, ph := range status.Phases() {
		p.status.SetPhase(ph, false)
	}
}
