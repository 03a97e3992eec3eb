package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildTestQuote returns a custom-design new build with one flat fee:
// 16 base + 5.2 dev hours, 10% buffer, 75 EUR/h, 19% VAT.
func buildTestQuote(t *testing.T, client string) model.Quote {
	t.Helper()
	sel := model.Selection{
		ProjectType: "NewBuild",
		Design:      model.DesignCustom,
		RiskBuffer:  decimal.NewFromInt(10),
		HourlyRate:  decimal.NewFromInt(75),
		TaxRate:     decimal.RequireFromString("0.19"),
		Features:    model.FeatureSet{},
	}
	sel.Features.Set("Dev", "SimpleSection", 2)
	sel.Features.Set("Content", "FullServiceFlatFee", 1)

	q := model.NewQuote(client, "Relaunch", sel, model.DefaultCatalog(), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	q.Number = "ABCD1234"
	return q
}

func TestSummarizeQuote(t *testing.T) {
	q := buildTestQuote(t, "Acme GmbH")
	s := SummarizeQuote(q)

	assert.Equal(t, "ABCD1234", s.Number)
	assert.Equal(t, "09.03.2026", s.Date)
	assert.Equal(t, "Acme GmbH", s.Client)
	assert.Equal(t, "NewBuild", s.ProjectType)
	assert.Equal(t, "23.32", s.TotalHours)
	assert.Equal(t, "3249.00", s.NetEUR)
	assert.Equal(t, "617.31", s.TaxEUR)
	assert.Equal(t, "3866.31", s.GrossEUR)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"gross":"3866.31"`)
}

func TestQuoteQRCode(t *testing.T) {
	png, err := QuoteQRCode(buildTestQuote(t, "Acme"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")), "expected PNG header")
}

func TestExportQuotePDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.pdf")
	q := buildTestQuote(t, "Acme GmbH")

	if err := ExportQuotePDF(path, q, model.DefaultAppConfig()); err != nil {
		t.Fatalf("ExportQuotePDF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("output file not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
	if len(data) < 1000 {
		t.Errorf("PDF suspiciously small: %d bytes", len(data))
	}
}

func TestWriteQuotePDF_EmptyScopeAndBlankConfig(t *testing.T) {
	sel := model.NewSelection("Tweaks", model.DefaultAppConfig())
	q := model.NewQuote("", "", sel, model.DefaultCatalog(), time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteQuotePDF(&buf, q, model.AppConfig{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestExportQuotePDF_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "quote.pdf")
	err := ExportQuotePDF(path, buildTestQuote(t, "Acme"), model.DefaultAppConfig())
	assert.Error(t, err)
}

func TestGenerateQuoteXLSX(t *testing.T) {
	q := buildTestQuote(t, "Acme GmbH")

	data, err := GenerateQuoteXLSX(q, model.DefaultAppConfig())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{QuoteSheetName}, f.GetSheetList())

	title, err := f.GetCellValue(QuoteSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Project Estimate", title)

	number, _ := f.GetCellValue(QuoteSheetName, "B4")
	assert.Equal(t, "ABCD1234", number)

	rows, err := f.GetRows(QuoteSheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	values := map[string]string{}
	var features []string
	for _, row := range rows {
		if len(row) >= 2 {
			values[row[0]] = row[1]
		}
		if len(row) == 4 && row[3] != "Type" {
			features = append(features, row[1])
		}
	}

	assert.Equal(t, "3249", values["Net price"])
	assert.Equal(t, "617.31", values["VAT (19%)"])
	assert.Equal(t, "1500", values["Flat fees (included in net)"])
	assert.Equal(t, "3866.31", values["Total price"])
	assert.Equal(t, "16", values["Base hours"])
	assert.Equal(t, "5.2", values["Feature hours"])
	assert.Equal(t, "2.12", values["Risk buffer (10%)"])
	assert.Equal(t, "23.32", values["Total hours"])
	assert.Equal(t, "75", values["Hourly rate"])
	assert.Equal(t, []string{"Simple section", "Full-service content"}, features)
}

func TestExportQuoteXLSX_SanitizesCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.xlsx")
	q := buildTestQuote(t, "=HYPERLINK(\"x\")")

	require.NoError(t, ExportQuoteXLSX(path, q, model.DefaultAppConfig()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	client, _ := f.GetCellValue(QuoteSheetName, "B6")
	assert.Equal(t, "'=HYPERLINK(\"x\")", client)
}

func TestQuoteSheetKeepsFirstError(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	ws := &quoteSheet{f: f, name: "Sheet1"}
	ws.set("A1", "fine")
	require.NoError(t, ws.err)

	ws.set("A0", "bad row")
	ws.setNum("ZZZZ1", decimal.NewFromInt(1), 0)
	require.Error(t, ws.err)
	assert.Contains(t, ws.err.Error(), "set cell A0")

	missing := &quoteSheet{f: f, name: "Nope"}
	missing.style("A1", "B1", 0)
	assert.ErrorContains(t, missing.err, "set style A1")
}

func TestSanitizeExcelCell(t *testing.T) {
	assert.Equal(t, "", sanitizeExcelCell(""))
	assert.Equal(t, "Acme", sanitizeExcelCell("Acme"))
	assert.Equal(t, "'+49", sanitizeExcelCell("+49"))
	assert.Equal(t, "'@x", sanitizeExcelCell("@x"))
}
