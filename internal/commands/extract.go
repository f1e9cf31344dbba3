package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skanbean-dev/skanbean/internal/beancount"
	"github.com/skanbean-dev/skanbean/internal/convert"
	"github.com/skanbean-dev/skanbean/internal/statement"
)

func newExtractCommand(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Convert statement files and print the resulting ledger entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			registry := statement.DefaultRegistry()
			warn := color.New(color.FgYellow)

			var stmts []*statement.Statement
			for _, path := range args {
				grid, err := readGrid(path, cfg.Encoding)
				if err != nil {
					return err
				}
				src, ok := registry.Detect(grid)
				if !ok {
					return fmt.Errorf("%s: no matching statement format", path)
				}
				stmt, skipped, err := src.Parse(grid)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				// Recoverable: report every skipped row, keep going.
				for _, s := range skipped {
					warn.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", path, s)
				}
				stmts = append(stmts, stmt)
			}

			items, err := convert.Run(cfg, stmts)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return beancount.Write(w, items, cfg.Currency)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write entries to a file instead of stdout")
	return cmd
}
