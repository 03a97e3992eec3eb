package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/QuoteCraft/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the printed QR code edge length in mm.
const qrSize = 32.0

// QuoteSummary is the data encoded into the QR code on a quote, so the
// key figures can be scanned back without retyping.
type QuoteSummary struct {
	Number      string `json:"no"`
	Date        string `json:"date"`
	Client      string `json:"client"`
	ProjectType string `json:"type"`
	TotalHours  string `json:"hours"`
	NetEUR      string `json:"net"`
	TaxEUR      string `json:"vat"`
	GrossEUR    string `json:"gross"`
}

// SummarizeQuote extracts the QR payload from a quote. Amounts use plain
// decimal notation rather than display formatting.
func SummarizeQuote(q model.Quote) QuoteSummary {
	return QuoteSummary{
		Number:      q.Number,
		Date:        q.DateString(),
		Client:      q.ClientName,
		ProjectType: q.Selection.ProjectType,
		TotalHours:  q.Estimate.TotalHours.Round(2).String(),
		NetEUR:      q.Estimate.NetPriceEUR.StringFixed(2),
		TaxEUR:      q.Estimate.TaxAmountEUR.StringFixed(2),
		GrossEUR:    q.Estimate.GrossPriceEUR.StringFixed(2),
	}
}

// QuoteQRCode returns the PNG bytes of the quote's summary QR code.
func QuoteQRCode(q model.Quote) ([]byte, error) {
	data, err := json.Marshal(SummarizeQuote(q))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote summary: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// renderQRCode places the summary QR code with its top-left corner at (x, y).
func renderQRCode(pdf *fpdf.Fpdf, q model.Quote, x, y float64) error {
	png, err := QuoteQRCode(q)
	if err != nil {
		return err
	}

	imgName := "qr_" + q.Number
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(x, y+qrSize)
	pdf.CellFormat(qrSize, 3, "Scan for quote summary", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}
