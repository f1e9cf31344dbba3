package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skanbean-dev/skanbean/internal/resolver"
	"github.com/skanbean-dev/skanbean/internal/statement"
)

func newArchiveCommand(flags *rootFlags) *cobra.Command {
	var archiveDir string
	var mode string

	cmd := &cobra.Command{
		Use:   "archive FILE...",
		Short: "File processed statements under a canonical archive name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != "move" && mode != "copy" {
				return fmt.Errorf("invalid --mode %q: must be move or copy", mode)
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(archiveDir, 0o755); err != nil {
				return fmt.Errorf("creating archive dir: %w", err)
			}

			registry := statement.DefaultRegistry()
			accounts := resolver.New(cfg.Accounts, cfg.DefaultAccount)

			for _, path := range args {
				grid, err := readGrid(path, cfg.Encoding)
				if err != nil {
					return err
				}
				src, ok := registry.Detect(grid)
				if !ok {
					return fmt.Errorf("%s: no matching statement format", path)
				}
				stmt, _, err := src.Parse(grid)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				account, err := accounts.Resolve(stmt.AccountNumber)
				if err != nil {
					return err
				}

				dst := uniquePath(filepath.Join(archiveDir, archiveName(stmt, account, path)))
				if err := place(path, dst, mode); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "* %s ... Archived to: %s\n", path, dst)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&archiveDir, "archive-dir", "archive", "directory to archive statements into")
	cmd.Flags().StringVar(&mode, "mode", "move", "archive by moving or copying (move|copy)")
	return cmd
}

// archiveName derives "skandia-Assets-SE-Skandia-Checking-2025-08-31.csv"
// from the statement's account and reference date.
func archiveName(stmt *statement.Statement, account, srcPath string) string {
	name := stmt.Format + "-" + strings.ReplaceAll(account, ":", "-")
	if d := stmt.Date(); !d.IsZero() {
		name += "-" + d.Format("2006-01-02")
	}
	return name + filepath.Ext(srcPath)
}

// uniquePath appends -1, -2, ... before the extension until the path is
// free, so archiving never clobbers an earlier statement.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func place(src, dst, mode string) error {
	if mode == "copy" {
		return copyFile(src, dst)
	}
	if err := os.Rename(src, dst); err != nil {
		// Rename fails across filesystems; fall back to copy+remove.
		if err := copyFile(src, dst); err != nil {
			return err
		}
		return os.Remove(src)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
