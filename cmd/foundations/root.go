package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pxlpowered/foundations"
	"github.com/pxlpowered/foundations/message"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "FOUNDATIONS"

// cli carries the settings shared by every subcommand.
type cli struct {
	v *viper.Viper
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	cmd := &cobra.Command{
		Use:          "foundations",
		Short:        "Manage layered configuration files",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("dir", "config", "configuration directory")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.StringSlice("default", nil, "extra default source locator, merged in order (repeatable)")

	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	cobra.CheckErr(c.v.BindPFlags(flags))

	cmd.AddCommand(
		newBootCmd(c),
		newShowCmd(c),
		newSaveCmd(c),
	)
	return cmd
}

func (c *cli) dir() string {
	return c.v.GetString("dir")
}

func (c *cli) defaults() []string {
	return c.v.GetStringSlice("default")
}

// logger writes console-encoded lines to the command's error stream.
func (c *cli) logger(cmd *cobra.Command) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.v.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(cmd.ErrOrStderr()),
		level,
	)
	return zap.New(core), nil
}

// resolve makes file relative to the configuration directory unless it is absolute.
func (c *cli) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.dir(), file)
}

// persistent builds and loads the configuration for file with the --default sources.
func (c *cli) persistent(cmd *cobra.Command, file string) (*foundations.PersistentConfiguration, error) {
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}

	messages, err := message.LoadDefault()
	if err != nil {
		return nil, err
	}

	b := foundations.NewPersistentBuilder(messages).File(c.resolve(file))
	for _, loc := range c.defaults() {
		b.DefaultLocator(loc)
	}

	cfg, err := b.Build(logger)
	if err != nil {
		return nil, err
	}

	cfg.Load(cmd.Context())
	if err := cfg.LastLoad().BaseError; err != nil {
		return nil, err
	}
	return cfg, nil
}
