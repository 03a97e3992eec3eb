// Package export renders quotes and estimates to the formats handed to
// clients: PDF documents, spreadsheets and display strings.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/shopspring/decimal"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 18.0
	marginRight  = 18.0
	marginTop    = 18.0
	marginBottom = 18.0
	headerHeight = 12.0
	contentWidth = pageWidth - marginLeft - marginRight
	lineHeight   = 6.0
	footerHeight = 14.0
)

// accent is the brand color used for rules and table headers.
var accent = struct{ R, G, B int }{R: 40, G: 70, B: 120}

// ExportQuotePDF writes the quote as a single A4 page to path.
func ExportQuotePDF(path string, q model.Quote, cfg model.AppConfig) error {
	pdf, err := buildQuotePDF(q, cfg)
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// WriteQuotePDF renders the quote and streams the PDF to w.
func WriteQuotePDF(w io.Writer, q model.Quote, cfg model.AppConfig) error {
	pdf, err := buildQuotePDF(q, cfg)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildQuotePDF(q model.Quote, cfg model.AppConfig) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, marginBottom+footerHeight)
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetTitle("Estimate "+q.Number, true)
	pdf.SetCreator(companyName(cfg), true)

	// Core fonts are cp1252; the translator maps "€" and "×" from UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	disclaimer := cfg.Disclaimer
	if strings.TrimSpace(disclaimer) == "" {
		disclaimer = model.DefaultDisclaimer
	}
	pdf.SetFooterFunc(func() {
		renderFooter(pdf, tr, disclaimer)
	})

	pdf.AddPage()

	y := renderHeader(pdf, tr, q, cfg)
	if err := renderQRCode(pdf, q, pageWidth-marginRight-qrSize, marginTop); err != nil {
		return nil, err
	}
	y = renderScope(pdf, tr, q, y+6)
	y = renderPricing(pdf, tr, q, y+6)
	renderHoursBreakdown(pdf, tr, q, y+6)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render quote PDF: %w", err)
	}
	return pdf, nil
}

// renderHeader draws the company, title and client block. It returns the Y
// position below the header.
func renderHeader(pdf *fpdf.Fpdf, tr func(string) string, q model.Quote, cfg model.AppConfig) float64 {
	textW := contentWidth - qrSize - 4

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(accent.R, accent.G, accent.B)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(textW, 5, tr(companyName(cfg)), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop+6)
	pdf.CellFormat(textW, headerHeight, "Project Estimate", "", 0, "L", false, 0, "")

	y := marginTop + 6 + headerHeight + 2
	details := []struct {
		label string
		value string
	}{
		{"Quote No.", q.Number},
		{"Date", q.DateString()},
		{"Client", q.ClientName},
		{"Project", q.ProjectName},
		{"Project Type", q.ProjectTypeLabel},
		{"Design", designLabel(q.Selection.Design)},
	}

	for _, d := range details {
		pdf.SetXY(marginLeft, y)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(30, 5, d.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(textW-30, 5, tr(d.value), "", 0, "L", false, 0, "")
		y += 5
	}

	y = max(y, marginTop+qrSize) + 3
	pdf.SetDrawColor(accent.R, accent.G, accent.B)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	return y
}

// renderScope lists the selected features grouped by module.
func renderScope(pdf *fpdf.Fpdf, tr func(string) string, q model.Quote, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Scope of Work", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if len(q.Lines) == 0 {
		pdf.SetX(marginLeft + 4)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(contentWidth-4, lineHeight, "Base package only, no additional features selected.", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return pdf.GetY()
	}

	currentModule := ""
	for _, line := range q.Lines {
		if line.Module != currentModule {
			currentModule = line.Module
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetX(marginLeft + 2)
			pdf.CellFormat(contentWidth-2, lineHeight, tr(line.ModuleLabel), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
		}
		text := line.Text()
		if line.Kind == model.CostFlatFee {
			text += " (flat fee)"
		}
		pdf.SetX(marginLeft + 6)
		pdf.CellFormat(contentWidth-6, lineHeight, tr("- "+text), "", 1, "L", false, 0, "")
	}
	return pdf.GetY()
}

// renderPricing draws the net / VAT / gross table.
func renderPricing(pdf *fpdf.Fpdf, tr func(string) string, q model.Quote, y float64) float64 {
	est := q.Estimate

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Pricing Summary", "", 1, "L", false, 0, "")
	y = pdf.GetY() + 1

	labelW := contentWidth * 0.65
	valueW := contentWidth - labelW

	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{"Net price", FormatEUR(est.NetPriceEUR), false},
		{VATLabel(q.Selection.TaxRate), FormatEUR(est.TaxAmountEUR), false},
		{"Total price", FormatEUR(est.GrossPriceEUR), true},
	}

	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.2)
	for i, row := range rows {
		style := ""
		if row.bold {
			style = "B"
			pdf.SetFillColor(accent.R, accent.G, accent.B)
			pdf.SetTextColor(255, 255, 255)
		} else if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(labelW, 7, tr(row.label), "1", 0, "L", true, 0, "")
		pdf.CellFormat(valueW, 7, tr(row.value), "1", 0, "R", true, 0, "")
		y += 7
	}
	pdf.SetTextColor(0, 0, 0)

	if est.FlatFees.IsPositive() {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(110, 110, 110)
		pdf.SetXY(marginLeft, y+1)
		note := fmt.Sprintf("Net price includes flat fees of %s.", FormatEUR(est.FlatFees))
		pdf.CellFormat(contentWidth, 4, tr(note), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		y += 5
	}
	return y
}

// renderHoursBreakdown draws how the total hours were built up.
func renderHoursBreakdown(pdf *fpdf.Fpdf, tr func(string) string, q model.Quote, y float64) {
	est := q.Estimate
	sel := q.Selection

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Hours Breakdown", "", 1, "L", false, 0, "")
	y = pdf.GetY() + 1

	items := []struct {
		label string
		value string
	}{
		{"Base hours (" + q.ProjectTypeLabel + ")", FormatHours(est.BaseHours)},
		{"Feature hours", FormatHours(est.FeatureHours)},
		{fmt.Sprintf("Risk buffer (%s%%)", sel.RiskBuffer.String()), FormatHours(est.BufferHours)},
		{"Total hours", FormatHours(est.TotalHours)},
		{"Hourly rate", FormatEUR(effectiveRate(sel)) + " / hr"},
	}

	for i, item := range items {
		style := ""
		if i == 3 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(80, 5.5, tr(item.label+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 5.5, tr(item.value), "", 0, "R", false, 0, "")
		y += 5.5
	}
}

// renderFooter prints the disclaimer and page number at the bottom of each page.
func renderFooter(pdf *fpdf.Fpdf, tr func(string) string, disclaimer string) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.2)
	pdf.Line(marginLeft, pageHeight-marginBottom-footerHeight+2, pageWidth-marginRight, pageHeight-marginBottom-footerHeight+2)

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom-footerHeight+4)
	pdf.MultiCell(contentWidth, 4, tr(disclaimer), "", "C", false)

	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentWidth, 4, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func companyName(cfg model.AppConfig) string {
	if name := strings.TrimSpace(cfg.CompanyName); name != "" {
		return name
	}
	return "QuoteCraft"
}

func designLabel(d model.Design) string {
	if d == model.DesignCustom {
		return "Custom"
	}
	return "Standard"
}

// effectiveRate mirrors the estimator's fallback so the printed rate matches
// the computed price.
func effectiveRate(sel model.Selection) decimal.Decimal {
	if sel.HourlyRate.IsPositive() {
		return sel.HourlyRate
	}
	return model.DefaultHourlyRate
}
