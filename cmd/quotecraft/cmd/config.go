package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/QuoteCraft/internal/logging"
	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/piwi3910/QuoteCraft/internal/project"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config, including environment overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.config)
		},
	}

	backupCmd := &cobra.Command{
		Use:   "backup <file>",
		Short: "Export config and catalog to a single backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.ExportAllData(args[0], a.config, a.catalog); err != nil {
				return err
			}
			logging.Info("backup written", zap.String("path", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
			return nil
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore config and catalog from a backup file",
		Long: `Restore config and catalog from a backup file. The catalog is written
next to the config file as catalog.json and the restored config points at it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, cat, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}

			cfgPath := a.configPath()
			catalogPath := filepath.Join(filepath.Dir(cfgPath), "catalog.json")
			if err := project.SaveCatalog(catalogPath, cat.Definition()); err != nil {
				return fmt.Errorf("failed to write catalog: %w", err)
			}

			cfg := backup.Config
			cfg.CatalogPath = catalogPath
			if err := project.SaveAppConfig(cfgPath, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			logging.Info("backup restored",
				zap.String("from", args[0]),
				zap.String("config", cfgPath),
				zap.String("catalog", catalogPath),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Restored backup from %s (created %s)\n", args[0], backup.CreatedAt)
			return nil
		},
	}

	configCmd.AddCommand(initCmd, showCmd, backupCmd, restoreCmd)
	return configCmd
}
