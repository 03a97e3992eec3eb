package export

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// QuoteSheetName is the name of the worksheet holding the quote.
const QuoteSheetName = "Estimate"

// eurNumFmt renders numeric EUR cells with two decimals and a euro sign.
var eurNumFmt = `#,##0.00 "€"`

// ExportQuoteXLSX writes the quote workbook to path.
func ExportQuoteXLSX(path string, q model.Quote, cfg model.AppConfig) error {
	data, err := GenerateQuoteXLSX(q, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write quote workbook: %w", err)
	}
	return nil
}

// GenerateQuoteXLSX builds a single-sheet workbook with the same content as
// the quote PDF and returns its bytes. Amounts and hours are stored as
// numbers so the sheet can be recalculated.
func GenerateQuoteXLSX(q model.Quote, cfg model.AppConfig) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), QuoteSheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	sheet := QuoteSheetName

	widths := map[string]float64{"A": 22, "B": 40, "C": 12, "D": 16}
	for col, w := range widths {
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	styles, err := newQuoteStyles(f)
	if err != nil {
		return nil, err
	}

	ws := &quoteSheet{f: f, name: QuoteSheetName}

	// Title block
	if err := f.MergeCell(sheet, "A1", "D1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	ws.set("A1", "Project Estimate")
	ws.style("A1", "D1", styles.title)
	ws.set("A2", companyName(cfg))

	row := 4
	details := [][2]string{
		{"Quote No.", q.Number},
		{"Date", q.DateString()},
		{"Client", q.ClientName},
		{"Project", q.ProjectName},
		{"Project Type", q.ProjectTypeLabel},
		{"Design", designLabel(q.Selection.Design)},
	}
	for _, d := range details {
		r := strconv.Itoa(row)
		ws.set("A"+r, d[0])
		ws.style("A"+r, "A"+r, styles.label)
		ws.set("B"+r, d[1])
		row++
	}

	// Scope of work
	row++
	r := strconv.Itoa(row)
	for i, h := range []string{"Module", "Feature", "Quantity", "Type"} {
		ws.set(string(rune('A'+i))+r, h)
	}
	ws.style("A"+r, "D"+r, styles.header)
	row++

	for _, line := range q.Lines {
		r := strconv.Itoa(row)
		ws.set("A"+r, line.ModuleLabel)
		ws.set("B"+r, line.Label)
		ws.set("C"+r, line.Quantity)
		kind := "Hours"
		if line.Kind == model.CostFlatFee {
			kind = "Flat fee"
		}
		ws.set("D"+r, kind)
		ws.style("A"+r, "D"+r, styles.item)
		row++
	}

	est := q.Estimate
	sel := q.Selection

	// Pricing summary
	row++
	r = strconv.Itoa(row)
	ws.set("A"+r, "Pricing Summary")
	ws.style("A"+r, "A"+r, styles.section)
	row++
	pricing := []struct {
		label string
		value decimal.Decimal
		style int
	}{
		{"Net price", est.NetPriceEUR, styles.eur},
		{VATLabel(sel.TaxRate), est.TaxAmountEUR, styles.eur},
		{"Flat fees (included in net)", est.FlatFees, styles.eur},
		{"Total price", est.GrossPriceEUR, styles.eurBold},
	}
	for _, p := range pricing {
		r := strconv.Itoa(row)
		ws.set("A"+r, p.label)
		ws.setNum("B"+r, p.value, p.style)
		row++
	}

	// Hours breakdown
	row++
	r = strconv.Itoa(row)
	ws.set("A"+r, "Hours Breakdown")
	ws.style("A"+r, "A"+r, styles.section)
	row++
	hours := []struct {
		label string
		value decimal.Decimal
		style int
	}{
		{"Base hours", est.BaseHours, styles.hours},
		{"Feature hours", est.FeatureHours, styles.hours},
		{fmt.Sprintf("Risk buffer (%s%%)", sel.RiskBuffer.String()), est.BufferHours, styles.hours},
		{"Total hours", est.TotalHours, styles.hoursBold},
		{"Hourly rate", effectiveRate(sel), styles.eur},
	}
	for _, h := range hours {
		r := strconv.Itoa(row)
		ws.set("A"+r, h.label)
		ws.setNum("B"+r, h.value, h.style)
		row++
	}

	disclaimer := cfg.Disclaimer
	if disclaimer == "" {
		disclaimer = model.DefaultDisclaimer
	}
	row++
	r = strconv.Itoa(row)
	if err := f.MergeCell(sheet, "A"+r, "D"+r); err != nil {
		return nil, fmt.Errorf("merge disclaimer: %w", err)
	}
	ws.set("A"+r, disclaimer)
	ws.style("A"+r, "D"+r, styles.note)

	if ws.err != nil {
		return nil, ws.err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// quoteSheet writes cells to one worksheet and keeps the first error, so
// the layout code reads top to bottom and checks once at the end.
type quoteSheet struct {
	f    *excelize.File
	name string
	err  error
}

func (s *quoteSheet) keep(what, cell string, err error) {
	if err != nil && s.err == nil {
		s.err = fmt.Errorf("%s %s: %w", what, cell, err)
	}
}

// set writes a value, sanitizing strings against formula injection.
func (s *quoteSheet) set(cell string, value interface{}) {
	if str, ok := value.(string); ok {
		value = sanitizeExcelCell(str)
	}
	s.keep("set cell", cell, s.f.SetCellValue(s.name, cell, value))
}

func (s *quoteSheet) setNum(cell string, d decimal.Decimal, style int) {
	s.keep("set number", cell, s.f.SetCellFloat(s.name, cell, d.InexactFloat64(), -1, 64))
	s.style(cell, cell, style)
}

func (s *quoteSheet) style(from, to string, style int) {
	s.keep("set style", from, s.f.SetCellStyle(s.name, from, to, style))
}

type quoteStyles struct {
	title, label, header, item, section int
	eur, eurBold, hours, hoursBold, note int
}

func newQuoteStyles(f *excelize.File) (quoteStyles, error) {
	var s quoteStyles
	defs := []struct {
		target *int
		name   string
		style  *excelize.Style
	}{
		{&s.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.label, "label", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}}},
		{&s.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#284678"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thinBorders(),
		}},
		{&s.item, "item", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&s.section, "section", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}}},
		{&s.eur, "eur", &excelize.Style{CustomNumFmt: &eurNumFmt}},
		{&s.eurBold, "eur bold", &excelize.Style{CustomNumFmt: &eurNumFmt, Font: &excelize.Font{Bold: true}}},
		{&s.hours, "hours", &excelize.Style{NumFmt: 2}},
		{&s.hoursBold, "hours bold", &excelize.Style{NumFmt: 2, Font: &excelize.Font{Bold: true}}},
		{&s.note, "note", &excelize.Style{
			Font:      &excelize.Font{Italic: true, Size: 9, Color: "#787878"},
			Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return s, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.target = id
	}
	return s, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
