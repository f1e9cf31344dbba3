package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skanbean-dev/skanbean/internal/buildinfo"
	"github.com/skanbean-dev/skanbean/internal/config"
	"github.com/skanbean-dev/skanbean/internal/statement"
)

// configEnvVar names the environment fallback for --config.
const configEnvVar = "SKANBEAN_CONFIG"

// defaultConfigFile is picked up from the working directory when neither
// the flag nor the environment points elsewhere.
const defaultConfigFile = "skanbean.yaml"

// rootFlags are the persistent flags shared by all subcommands.
type rootFlags struct {
	configPath string
	account    string
	currency   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "skanbean",
		Short:   "Convert Skandia kontoutdrag exports to a Beancount ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to skanbean.yaml (default: $"+configEnvVar+" or ./"+defaultConfigFile+")")
	rootCmd.PersistentFlags().StringVar(&flags.account, "account", "", "default ledger account when no config maps the kontonummer")
	rootCmd.PersistentFlags().StringVar(&flags.currency, "currency", "SEK", "currency code")

	rootCmd.AddCommand(newIdentifyCommand(flags))
	rootCmd.AddCommand(newExtractCommand(flags))
	rootCmd.AddCommand(newArchiveCommand(flags))

	return rootCmd
}

// loadConfig resolves the effective configuration: an explicit --config
// must exist, otherwise the environment and then ./skanbean.yaml are
// tried, otherwise flag defaults apply.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = os.Getenv(configEnvVar)
	}
	explicit := path != ""
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	if path == "" {
		return config.Default(flags.account, flags.currency), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !os.IsNotExist(err) {
			return nil, err
		}
		return config.Default(flags.account, flags.currency), nil
	}

	// Flags fill configuration gaps; a flag given on the command line
	// overrides the config value.
	if (cfg.DefaultAccount == "" && flags.account != "") || cmd.Flags().Changed("account") {
		cfg.DefaultAccount = flags.account
	}
	if cmd.Flags().Changed("currency") {
		cfg.Currency = flags.currency
	}
	return cfg, nil
}

// readGrid loads one statement file into a cell grid using the
// configured encoding.
func readGrid(path, encoding string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	grid, err := statement.ReadGrid(f, encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, nil
}
