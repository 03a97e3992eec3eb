package model

import "github.com/shopspring/decimal"

// DefaultHourlyRate is used when a selection carries no positive hourly rate.
var DefaultHourlyRate = decimal.NewFromInt(75)

// Estimate holds the results of a project cost calculation.
// TotalHours always equals BaseHours+FeatureHours+BufferHours and
// GrossPriceEUR always equals NetPriceEUR+TaxAmountEUR.
type Estimate struct {
	BaseHours     decimal.Decimal `json:"base_hours"`
	FeatureHours  decimal.Decimal `json:"feature_hours"`
	BufferHours   decimal.Decimal `json:"buffer_hours"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	FlatFees      decimal.Decimal `json:"flat_fees"`       // EUR, not scaled by rate, buffer or design
	NetPriceEUR   decimal.Decimal `json:"net_price_eur"`   // TotalHours*rate + FlatFees
	TaxAmountEUR  decimal.Decimal `json:"tax_amount_eur"`  // NetPriceEUR*TaxRate
	GrossPriceEUR decimal.Decimal `json:"gross_price_eur"` // NetPriceEUR+TaxAmountEUR
}

// CalculateEstimate prices a selection against a catalog.
//
// Unknown project types, modules and features contribute nothing. Quantities
// of zero or less are skipped. A custom design scales only the catalog's
// multiplier module, once, after all of its hours are summed. The risk
// buffer is applied as given, including negative values. The function has
// no side effects and is safe for concurrent use.
func CalculateEstimate(sel Selection, cat *Catalog) Estimate {
	baseHours := cat.BaseHours(sel.ProjectType)
	multiplierModule := cat.MultiplierModule()

	devHours := decimal.Zero
	otherHours := decimal.Zero
	flatFees := decimal.Zero

	for module, features := range sel.Features {
		for feature, qty := range features {
			if qty <= 0 {
				continue
			}
			q := decimal.NewFromInt(int64(qty))
			f := cat.FeatureCost(module, feature)

			if f.IsFlatFee() {
				flatFees = flatFees.Add(f.Cost.Mul(q))
				continue
			}

			hours := f.Cost.Mul(q)
			if module == multiplierModule {
				devHours = devHours.Add(hours)
			} else {
				otherHours = otherHours.Add(hours)
			}
		}
	}

	if sel.Design == DesignCustom {
		devHours = devHours.Mul(cat.CustomMultiplier())
	}

	featureHours := devHours.Add(otherHours)
	bufferHours := baseHours.Add(featureHours).Mul(sel.RiskBuffer).Shift(-2)
	totalHours := baseHours.Add(featureHours).Add(bufferHours)

	rate := sel.HourlyRate
	if !rate.IsPositive() {
		rate = DefaultHourlyRate
	}

	netPrice := totalHours.Mul(rate).Add(flatFees)
	taxAmount := netPrice.Mul(sel.TaxRate)

	return Estimate{
		BaseHours:     baseHours,
		FeatureHours:  featureHours,
		BufferHours:   bufferHours,
		TotalHours:    totalHours,
		FlatFees:      flatFees,
		NetPriceEUR:   netPrice,
		TaxAmountEUR:  taxAmount,
		GrossPriceEUR: netPrice.Add(taxAmount),
	}
}
