package main

import (
	"fmt"

	"github.com/pxlpowered/foundations/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newBootCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "boot",
		Short: "Load the messages, the global configuration and every main configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := c.logger(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			p := bootstrap.New(bootstrap.Options{
				Dir:      c.dir(),
				Defaults: c.defaults(),
			}, logger)

			err = p.Start(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", p.Status().Token())
			if err != nil {
				return err
			}

			for _, name := range p.Settings().Configs {
				fmt.Fprintf(cmd.OutOrStdout(), "loaded: %s\n", p.Configs()[name].Path())
			}
			return nil
		},
	}
}
