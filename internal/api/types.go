package api

import (
	"github.com/piwi3910/QuoteCraft/internal/export"
	"github.com/piwi3910/QuoteCraft/internal/input"
	"github.com/piwi3910/QuoteCraft/internal/model"
)

// QuoteRequest is the JSON body accepted by /estimate and the quote
// endpoints. Client and project are only used on quotes.
type QuoteRequest struct {
	input.Raw
	Client  string `json:"client"`
	Project string `json:"project"`
}

// EstimateResponse is returned by POST /estimate.
type EstimateResponse struct {
	Selection model.Selection `json:"selection"`
	Estimate  model.Estimate  `json:"estimate"`
	Display   Display         `json:"display"`
	Warnings  []string        `json:"warnings,omitempty"`
}

// Display holds the estimate pre-formatted for a live summary panel.
type Display struct {
	BaseHours    string `json:"base_hours"`
	FeatureHours string `json:"feature_hours"`
	BufferHours  string `json:"buffer_hours"`
	TotalHours   string `json:"total_hours"`
	FlatFees     string `json:"flat_fees"`
	NetPrice     string `json:"net_price"`
	VATLabel     string `json:"vat_label"`
	TaxAmount    string `json:"tax_amount"`
	GrossPrice   string `json:"gross_price"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ErrorResponse wraps every error reply.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries a machine-readable code and a human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newDisplay(sel model.Selection, est model.Estimate) Display {
	return Display{
		BaseHours:    export.FormatHours(est.BaseHours),
		FeatureHours: export.FormatHours(est.FeatureHours),
		BufferHours:  export.FormatHours(est.BufferHours),
		TotalHours:   export.FormatHours(est.TotalHours),
		FlatFees:     export.FormatEUR(est.FlatFees),
		NetPrice:     export.FormatEUR(est.NetPriceEUR),
		VATLabel:     export.VATLabel(sel.TaxRate),
		TaxAmount:    export.FormatEUR(est.TaxAmountEUR),
		GrossPrice:   export.FormatEUR(est.GrossPriceEUR),
	}
}
