// Package cmd provides the CLI commands for quotecraft.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/QuoteCraft/internal/logging"
	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/piwi3910/QuoteCraft/internal/project"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "0.1.0"

// app is the state shared by all subcommands once the root command has
// resolved config, logging and the catalog.
type app struct {
	cfgFile     string
	catalogFile string
	verbose     bool

	config  model.AppConfig
	catalog *model.Catalog
}

// configPath returns the config file in use.
func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return project.DefaultConfigPath()
}

// setup loads the config with environment overrides, initializes logging
// and loads the catalog.
func (a *app) setup() error {
	cfg, err := project.ResolveAppConfig(a.configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.catalogFile != "" {
		cfg.CatalogPath = a.catalogFile
	}
	a.config = cfg

	logCfg := cfg.Logging
	if a.verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cat, err := project.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	a.catalog = cat
	logging.Debug("catalog loaded",
		zap.String("path", cfg.CatalogPath),
		zap.Int("project_types", len(cat.ProjectTypes())),
		zap.Int("modules", len(cat.Modules())),
	)
	return nil
}

// NewRootCmd builds the quotecraft command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "quotecraft",
		Short: "Estimate project hours and prices and export client quotes",
		Long: `quotecraft turns a project type and a selection of feature modules into
labor hours, a risk buffer and a EUR price (net, VAT, gross), and exports the
result as a PDF or Excel quote.

Examples:
  quotecraft estimate --type NewBuild --feature Dev.SimpleSection=3
  quotecraft estimate --type Migration --selection scope.xlsx --pdf
  quotecraft catalog list
  quotecraft serve --addr :8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.quotecraft/config.json)")
	rootCmd.PersistentFlags().StringVar(&a.catalogFile, "catalog", "", "catalog file (.json, .yaml) instead of the built-in catalog")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newEstimateCmd(a),
		newCatalogCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quotecraft version %s\n", Version)
		},
	}
}
