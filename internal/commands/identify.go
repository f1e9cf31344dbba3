package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skanbean-dev/skanbean/internal/statement"
)

func newIdentifyCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "identify FILE...",
		Short: "Report whether files match a known statement format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			registry := statement.DefaultRegistry()
			for _, path := range args {
				grid, err := readGrid(path, cfg.Encoding)
				if err != nil {
					return err
				}
				// Not matching is an answer, not an error.
				if src, ok := registry.Detect(grid); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "* %s ... OK (%s)\n", path, src.Format())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "* %s ... SKIP (no matching format)\n", path)
				}
			}
			return nil
		},
	}
}
