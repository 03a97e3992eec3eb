package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/QuoteCraft/internal/export"
	"github.com/piwi3910/QuoteCraft/internal/importer"
	"github.com/piwi3910/QuoteCraft/internal/input"
	"github.com/piwi3910/QuoteCraft/internal/logging"
	"github.com/piwi3910/QuoteCraft/internal/model"
)

// autoPath is the value --pdf and --xlsx take when given without a file name.
const autoPath = "auto"

type estimateOptions struct {
	projectType string
	design      string
	buffer      string
	rate        string
	vat         string
	features    []string
	selection   string
	client      string
	project     string
	pdfPath     string
	xlsxPath    string
	format      string

	importWarnings []string
}

// estimateOutput is the JSON shape printed by `estimate --format json`.
type estimateOutput struct {
	Quote    model.Quote `json:"quote"`
	Warnings []string    `json:"warnings,omitempty"`
	Files    []string    `json:"files,omitempty"`
}

func newEstimateCmd(a *app) *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate hours and price for a project",
		Long: `Compute hours and price for a project type and a set of features.

Features are given as Module.Feature or Module.Feature=qty and can also be
read from a CSV or Excel selection file (columns: Module, Feature, Quantity).
Pricing flags left empty take the defaults from the config file.

Examples:
  quotecraft estimate --type NewBuild --design custom --feature Dev.SimpleSection=3
  quotecraft estimate --type Migration --selection scope.csv --client "Acme GmbH" --pdf
  quotecraft estimate --type Tweaks --rate 90 --vat 0 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, a, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.projectType, "type", "t", "", "project type ("+strings.Join(model.DefaultCatalog().ProjectTypeNames(), ", ")+")")
	f.StringVar(&opts.design, "design", "", "design option: standard or custom")
	f.StringVar(&opts.buffer, "buffer", "", "risk buffer in percent (0-100)")
	f.StringVar(&opts.rate, "rate", "", "hourly rate in EUR")
	f.StringVar(&opts.vat, "vat", "", "VAT rate as a fraction, e.g. 0.19")
	f.StringArrayVarP(&opts.features, "feature", "f", nil, "feature as Module.Feature[=qty] (repeatable)")
	f.StringVar(&opts.selection, "selection", "", "CSV or Excel file with the feature selection")
	f.StringVar(&opts.client, "client", "", "client name printed on the quote")
	f.StringVar(&opts.project, "project", "", "project name printed on the quote")
	f.StringVar(&opts.pdfPath, "pdf", "", "write the quote PDF to this file (no value: output dir, default name)")
	f.StringVar(&opts.xlsxPath, "xlsx", "", "write the quote workbook to this file (no value: output dir, default name)")
	f.StringVar(&opts.format, "format", "text", "output format (text, json)")
	f.Lookup("pdf").NoOptDefVal = autoPath
	f.Lookup("xlsx").NoOptDefVal = autoPath

	return cmd
}

func runEstimate(cmd *cobra.Command, a *app, opts *estimateOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (use text or json)", opts.format)
	}

	values, err := opts.values()
	if err != nil {
		return err
	}
	input.ApplyDefaults(values, a.config)

	res := input.ParseForm(values, a.catalog)
	warnings := append(opts.importWarnings, res.Warnings...)
	for _, w := range warnings {
		logging.Warn("selection adjusted", zap.String("detail", w))
	}

	q := model.NewQuote(opts.client, opts.project, res.Selection, a.catalog, time.Now())

	var files []string
	if opts.pdfPath != "" {
		path := a.exportPath(opts.pdfPath, q, "pdf")
		if err := export.ExportQuotePDF(path, q, a.config); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		logging.Info("quote PDF written", zap.String("path", path))
		files = append(files, path)
	}
	if opts.xlsxPath != "" {
		path := a.exportPath(opts.xlsxPath, q, "xlsx")
		if err := export.ExportQuoteXLSX(path, q, a.config); err != nil {
			return fmt.Errorf("failed to export workbook: %w", err)
		}
		logging.Info("quote workbook written", zap.String("path", path))
		files = append(files, path)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(estimateOutput{Quote: q, Warnings: warnings, Files: files})
	}

	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "Warning:", w)
	}
	printQuote(out, q)
	for _, path := range files {
		fmt.Fprintf(out, "\nWritten: %s", path)
	}
	if len(files) > 0 {
		fmt.Fprintln(out)
	}
	return nil
}

// values turns the flags and the optional selection file into form values.
// Quantities from --feature replace those read from the file.
func (o *estimateOptions) values() (url.Values, error) {
	values := url.Values{}
	for field, v := range map[string]string{
		input.FieldProjectType: o.projectType,
		input.FieldDesign:      o.design,
		input.FieldRiskBuffer:  o.buffer,
		input.FieldHourlyRate:  o.rate,
		input.FieldVATRate:     o.vat,
	} {
		if v != "" {
			values.Set(field, v)
		}
	}

	fs := model.FeatureSet{}
	if o.selection != "" {
		result := importer.Import(o.selection)
		if result.HasErrors() {
			return nil, fmt.Errorf("selection file %s: %s", o.selection, strings.Join(result.Errors, "; "))
		}
		o.importWarnings = result.Warnings
		fs.Merge(result.Features)
	}
	for _, flag := range o.features {
		module, feature, qty, err := input.ParseFeatureFlag(flag)
		if err != nil {
			return nil, fmt.Errorf("--feature %q: %w", flag, err)
		}
		fs.Set(module, feature, qty)
	}
	input.FeatureValues(values, fs)
	return values, nil
}

// exportPath resolves a --pdf/--xlsx value to a file path.
func (a *app) exportPath(value string, q model.Quote, ext string) string {
	if value == autoPath {
		return filepath.Join(a.config.OutputDir, q.FileName(ext))
	}
	return value
}

// printQuote renders the quote as an aligned text summary.
func printQuote(out io.Writer, q model.Quote) {
	est := q.Estimate
	sel := q.Selection

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Estimate %s\t%s\n", q.Number, q.DateString())
	fmt.Fprintf(w, "Client:\t%s\n", q.ClientName)
	fmt.Fprintf(w, "Project:\t%s\n", q.ProjectName)
	fmt.Fprintf(w, "Project type:\t%s (%s design)\n", q.ProjectTypeLabel, sel.Design)

	fmt.Fprintln(w, "\nSCOPE")
	if len(q.Lines) == 0 {
		fmt.Fprintln(w, "  (base package only)")
	}
	for _, line := range q.Lines {
		text := line.Text()
		if line.Kind == model.CostFlatFee {
			text += " (flat fee)"
		}
		fmt.Fprintf(w, "  %s\t%s\n", line.ModuleLabel, text)
	}

	fmt.Fprintln(w, "\nHOURS")
	fmt.Fprintf(w, "  Base hours\t%s\n", export.FormatHours(est.BaseHours))
	fmt.Fprintf(w, "  Feature hours\t%s\n", export.FormatHours(est.FeatureHours))
	fmt.Fprintf(w, "  Risk buffer (%s%%)\t%s\n", sel.RiskBuffer.String(), export.FormatHours(est.BufferHours))
	fmt.Fprintf(w, "  Total hours\t%s\n", export.FormatHours(est.TotalHours))

	fmt.Fprintln(w, "\nPRICE")
	fmt.Fprintf(w, "  Hourly rate\t%s\n", export.FormatEUR(sel.HourlyRate))
	if est.FlatFees.IsPositive() {
		fmt.Fprintf(w, "  Flat fees\t%s\n", export.FormatEUR(est.FlatFees))
	}
	fmt.Fprintf(w, "  Net price\t%s\n", export.FormatEUR(est.NetPriceEUR))
	fmt.Fprintf(w, "  %s\t%s\n", export.VATLabel(sel.TaxRate), export.FormatEUR(est.TaxAmountEUR))
	fmt.Fprintf(w, "  Total price\t%s\n", export.FormatEUR(est.GrossPriceEUR))
	w.Flush()
}
