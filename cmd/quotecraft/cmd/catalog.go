package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/QuoteCraft/internal/export"
	"github.com/piwi3910/QuoteCraft/internal/logging"
	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/piwi3910/QuoteCraft/internal/project"
)

func newCatalogCmd(a *app) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and export the pricing catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List project types, modules and feature costs",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCatalog(cmd, a.catalog)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the active catalog to a .json or .yaml file",
		Long: `Write the active catalog to a file that can be edited and loaded back
with --catalog or the catalog_path config setting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.SaveCatalog(args[0], a.catalog.Definition()); err != nil {
				return fmt.Errorf("failed to export catalog: %w", err)
			}
			logging.Info("catalog exported", zap.String("path", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog written to %s\n", args[0])
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file and report every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := project.LoadCatalog(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d project types, %d modules\n",
				args[0], len(cat.ProjectTypes()), len(cat.Modules()))
			return nil
		},
	}

	catalogCmd.AddCommand(listCmd, exportCmd, validateCmd)
	return catalogCmd
}

func printCatalog(cmd *cobra.Command, cat *model.Catalog) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "PROJECT TYPE\tLABEL\tBASE\tHIDDEN MODULES")
	for _, pt := range cat.ProjectTypes() {
		hidden := "-"
		if len(pt.HiddenModules) > 0 {
			hidden = strings.Join(pt.HiddenModules, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", pt.Key, pt.Label, export.FormatHours(pt.BaseHours), hidden)
	}

	fmt.Fprintln(w, "\nMODULE\tFEATURE\tLABEL\tCOST")
	for _, m := range cat.Modules() {
		for _, f := range m.Features {
			cost := export.FormatHours(f.Cost)
			if f.IsFlatFee() {
				cost = export.FormatEUR(f.Cost) + " flat"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Key, f.Key, f.Label, cost)
		}
	}

	fmt.Fprintf(w, "\nCustom design multiplies %s hours by %s\n", cat.MultiplierModule(), cat.CustomMultiplier().String())
	w.Flush()
}
