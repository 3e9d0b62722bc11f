package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Create or refresh a file with its defaults merged in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.persistent(cmd, args[0])
			if err != nil {
				return err
			}

			cfg.Save()
			if err := cfg.SaveErr(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved: %s\n", cfg.Path())
			return nil
		},
	}
}
