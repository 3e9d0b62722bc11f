package main

import (
	"github.com/pxlpowered/foundations"
	"github.com/spf13/cobra"
)

func newShowCmd(c *cli) *cobra.Command {
	var (
		sources bool
		asJSON  bool
		redact  []string
	)

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the effective configuration of a file merged with its defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.persistent(cmd, args[0])
			if err != nil {
				return err
			}

			var opts []foundations.DumpOption
			if sources {
				opts = append(opts, foundations.WithSources())
			}
			if asJSON {
				opts = append(opts, foundations.AsJSON())
			}
			if len(redact) > 0 {
				opts = append(opts, foundations.WithRedacted(redact...))
			}
			return foundations.Dump(cmd.OutOrStdout(), cfg, opts...)
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "show which source set each key")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of key: value lines")
	cmd.Flags().StringSliceVar(&redact, "redact", nil, "key paths whose values are hidden")
	return cmd
}
