// Package cli implements the docvault command tree. Every command runs
// against the local vault: configuration is merged from flags,
// environment and an optional JSON file, the catalog database is opened
// and migrated, and the services are wired before any subcommand runs.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkurmanov/docvault/internal/config"
	"github.com/dkurmanov/docvault/internal/logger"
	"github.com/dkurmanov/docvault/internal/service"
	"github.com/dkurmanov/docvault/internal/store"
)

// BuildInfo carries the ldflags-injected build metadata.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// CLI owns the command tree and the wired application state.
type CLI struct {
	build BuildInfo

	cfg      *config.StructuredConfig
	logger   *logger.Logger
	storages store.Storages
	services *service.Services

	flags rootFlags
	root  *cobra.Command
}

// rootFlags collects persistent flag values before the config merge.
type rootFlags struct {
	vaultDir   string
	catalogDSN string
	configFile string
	logLevel   string
	logFile    string
	workers    int
	clipboard  bool
	verbose    bool
}

// NewCLI builds the docvault command tree.
func NewCLI(build BuildInfo) *CLI {
	c := &CLI{build: build, logger: logger.Nop()}

	c.root = &cobra.Command{
		Use:   "docvault",
		Short: "Seal documents into password-protected encrypted containers",
		Long: `docvault keeps documents in encrypted container files, each sealed
under a password of your choosing. Every seal also issues a one-time
recovery secret: store it somewhere safe and you can still open or
re-key the document after the password is lost.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
				return nil
			}
			return c.initApp(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.storages.Close()
		},
	}

	pf := c.root.PersistentFlags()
	pf.StringVar(&c.flags.vaultDir, "vault-dir", "", "directory holding sealed container files")
	pf.StringVar(&c.flags.catalogDSN, "catalog", "", "path of the document catalog database")
	pf.StringVar(&c.flags.configFile, "config", "", "path of a JSON configuration file")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	pf.StringVar(&c.flags.logFile, "log-file", "", "log file path (default stderr)")
	pf.IntVar(&c.flags.workers, "workers", 0, "number of concurrent seal workers for batch operations")
	pf.BoolVar(&c.flags.clipboard, "clipboard", false, "copy freshly issued recovery secrets to the clipboard")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "verbose log output")

	c.root.AddCommand(
		c.newSealCmd(),
		c.newOpenCmd(),
		c.newRecoverCmd(),
		c.newRotateCmd(),
		c.newReissueCmd(),
		c.newListCmd(),
		c.newRemoveCmd(),
		c.newVersionCmd(),
	)

	return c
}

// Execute runs the command tree.
func (c *CLI) Execute() error {
	return c.root.Execute()
}

// initApp merges configuration, opens the logger and wires storages and
// services. Runs once, before any vault-touching subcommand.
func (c *CLI) initApp(cmd *cobra.Command) error {
	cfg, err := config.GetConfig(c.configOverrides(cmd))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	c.cfg = cfg

	c.logger, err = c.newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	c.storages, err = store.NewStorages(cmd.Context(), cfg.Storage, c.logger)
	if err != nil {
		return fmt.Errorf("initialize storages: %w", err)
	}
	c.services = service.NewServices(c.storages, *cfg, c.logger)

	c.logger.Debug().
		Str("vault_dir", cfg.Storage.Vault.Dir).
		Str("catalog", cfg.Storage.Catalog.DSN).
		Msg("application initialized")
	return nil
}

// configOverrides translates set flags into the highest-priority config
// layer. Unset flags stay zero so lower layers show through the merge.
func (c *CLI) configOverrides(cmd *cobra.Command) *config.StructuredConfig {
	overrides := &config.StructuredConfig{}
	overrides.Storage.Vault.Dir = c.flags.vaultDir
	overrides.Storage.Catalog.DSN = c.flags.catalogDSN
	overrides.JSONFilePath = c.flags.configFile
	overrides.Logging.Level = c.flags.logLevel
	overrides.Logging.File = c.flags.logFile
	overrides.Workers.Count = c.flags.workers
	overrides.App.Version = c.build.Version

	if cmd.Flags().Changed("clipboard") {
		overrides.App.ClipboardEnabled = c.flags.clipboard
	}
	if c.flags.verbose {
		overrides.Logging.Level = "debug"
	}
	return overrides
}

func (c *CLI) newLogger(cfg *config.StructuredConfig) (*logger.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Logging.Level, err)
	}
	if cfg.Logging.File != "" {
		return logger.NewFileLogger("cli", cfg.Logging.File, level), nil
	}
	if c.flags.verbose {
		return logger.NewLeveledLogger("cli", level), nil
	}
	// quiet by default: interactive output belongs to the commands
	return logger.Nop(), nil
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docvault %s (built %s, commit %s)\n",
				orNA(c.build.Version), orNA(c.build.Date), orNA(c.build.Commit))
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// exitCode maps an Execute error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, uiError.Sprint("✗")+" "+err.Error())
	return 1
}

// Run executes the CLI and returns the process exit code.
func Run(build BuildInfo) int {
	return exitCode(NewCLI(build).Execute())
}
