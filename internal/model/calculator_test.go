package model

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: expected %s, got %s", field, want, got)
}

func assertIdentities(t *testing.T, est Estimate) {
	t.Helper()
	sum := est.BaseHours.Add(est.FeatureHours).Add(est.BufferHours)
	assert.Truef(t, est.TotalHours.Equal(sum), "total %s != base+feature+buffer %s", est.TotalHours, sum)
	gross := est.NetPriceEUR.Add(est.TaxAmountEUR)
	assert.Truef(t, est.GrossPriceEUR.Equal(gross), "gross %s != net+tax %s", est.GrossPriceEUR, gross)
}

func assertSameEstimate(t *testing.T, want, got Estimate) {
	t.Helper()
	assertDecimal(t, want.BaseHours.String(), got.BaseHours, "BaseHours")
	assertDecimal(t, want.FeatureHours.String(), got.FeatureHours, "FeatureHours")
	assertDecimal(t, want.BufferHours.String(), got.BufferHours, "BufferHours")
	assertDecimal(t, want.TotalHours.String(), got.TotalHours, "TotalHours")
	assertDecimal(t, want.FlatFees.String(), got.FlatFees, "FlatFees")
	assertDecimal(t, want.NetPriceEUR.String(), got.NetPriceEUR, "NetPriceEUR")
	assertDecimal(t, want.TaxAmountEUR.String(), got.TaxAmountEUR, "TaxAmountEUR")
	assertDecimal(t, want.GrossPriceEUR.String(), got.GrossPriceEUR, "GrossPriceEUR")
}

func TestCalculateEstimateScenarios(t *testing.T) {
	cat := DefaultCatalog()

	tests := []struct {
		name string
		sel  Selection
		want map[string]string
	}{
		{
			name: "new build with buffer and VAT",
			sel: Selection{
				ProjectType: "NewBuild",
				Design:      DesignStandard,
				RiskBuffer:  dec("10"),
				HourlyRate:  dec("75"),
				TaxRate:     dec("0.19"),
				Features:    FeatureSet{},
			},
			want: map[string]string{
				"base": "16", "feature": "0", "buffer": "1.6", "total": "17.6",
				"flat": "0", "net": "1320", "tax": "250.8", "gross": "1570.8",
			},
		},
		{
			name: "tweaks with custom design",
			sel: Selection{
				ProjectType: "Tweaks",
				Design:      DesignCustom,
				RiskBuffer:  dec("0"),
				HourlyRate:  dec("75"),
				TaxRate:     dec("0"),
				Features:    FeatureSet{"Dev": {"SimpleSection": 2}},
			},
			want: map[string]string{
				"base": "2", "feature": "5.2", "buffer": "0", "total": "7.2",
				"flat": "0", "net": "540", "tax": "0", "gross": "540",
			},
		},
		{
			name: "audit with full-service flat fee",
			sel: Selection{
				ProjectType: "Audit",
				Design:      DesignStandard,
				RiskBuffer:  dec("0"),
				HourlyRate:  dec("75"),
				TaxRate:     dec("0"),
				Features:    FeatureSet{"Content": {"FullServiceFlatFee": 1}},
			},
			want: map[string]string{
				"base": "6", "feature": "0", "buffer": "0", "total": "6",
				"flat": "1500", "net": "1950", "tax": "0", "gross": "1950",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := CalculateEstimate(tt.sel, cat)
			assertDecimal(t, tt.want["base"], est.BaseHours, "BaseHours")
			assertDecimal(t, tt.want["feature"], est.FeatureHours, "FeatureHours")
			assertDecimal(t, tt.want["buffer"], est.BufferHours, "BufferHours")
			assertDecimal(t, tt.want["total"], est.TotalHours, "TotalHours")
			assertDecimal(t, tt.want["flat"], est.FlatFees, "FlatFees")
			assertDecimal(t, tt.want["net"], est.NetPriceEUR, "NetPriceEUR")
			assertDecimal(t, tt.want["tax"], est.TaxAmountEUR, "TaxAmountEUR")
			assertDecimal(t, tt.want["gross"], est.GrossPriceEUR, "GrossPriceEUR")
			assertIdentities(t, est)
		})
	}
}

func TestCalculateEstimateEmptyFeatures(t *testing.T) {
	cat := DefaultCatalog()
	for _, pt := range cat.ProjectTypeNames() {
		est := CalculateEstimate(Selection{
			ProjectType: pt,
			Design:      DesignCustom,
			RiskBuffer:  dec("25"),
			HourlyRate:  dec("90"),
			TaxRate:     dec("0.2"),
		}, cat)
		assert.True(t, est.FeatureHours.IsZero(), "%s: feature hours should be zero", pt)
		assert.True(t, est.FlatFees.IsZero(), "%s: flat fees should be zero", pt)
		assertIdentities(t, est)
	}
}

func TestCalculateEstimateNonPositiveQuantitiesIgnored(t *testing.T) {
	cat := DefaultCatalog()
	base := Selection{ProjectType: "NewBuild", RiskBuffer: dec("15"), HourlyRate: dec("75"), TaxRate: dec("0.19")}

	withZeros := base
	withZeros.Features = FeatureSet{
		"Dev":     {"SimpleSection": 0, "ComplexSection": -3},
		"Content": {"FullServiceFlatFee": 0},
		"Apps":    {"B2B_Plus": -1},
	}

	assertSameEstimate(t, CalculateEstimate(base, cat), CalculateEstimate(withZeros, cat))
}

func TestCalculateEstimateCustomDesignScalesOnlyMultiplierModule(t *testing.T) {
	cat := DefaultCatalog()
	features := FeatureSet{
		"Dev":     {"SimpleSection": 1, "ComplexSection": 2},
		"Apps":    {"Complex": 1},
		"Content": {"FullServiceFlatFee": 1},
	}
	standard := Selection{ProjectType: "NewBuild", Design: DesignStandard, HourlyRate: dec("100"), Features: features}
	custom := standard
	custom.Design = DesignCustom

	std := CalculateEstimate(standard, cat)
	cus := CalculateEstimate(custom, cat)

	// Dev: 2 + 12 = 14 hours, scaled to 18.2. Apps: 6 hours unscaled.
	assertDecimal(t, "20", std.FeatureHours, "standard FeatureHours")
	assertDecimal(t, "24.2", cus.FeatureHours, "custom FeatureHours")
	assert.True(t, std.FlatFees.Equal(cus.FlatFees), "flat fees must not scale")
	assert.True(t, std.BaseHours.Equal(cus.BaseHours), "base hours must not scale")

	onlyApps := Selection{ProjectType: "NewBuild", Design: DesignCustom, HourlyRate: dec("100"), Features: FeatureSet{"Apps": {"Complex": 1}}}
	onlyAppsStd := onlyApps
	onlyAppsStd.Design = DesignStandard
	assertSameEstimate(t, CalculateEstimate(onlyAppsStd, cat), CalculateEstimate(onlyApps, cat))
}

func TestCalculateEstimateFlatFeeIsolation(t *testing.T) {
	cat := DefaultCatalog()
	sel := Selection{
		ProjectType: "Tweaks",
		Design:      DesignCustom,
		RiskBuffer:  dec("50"),
		HourlyRate:  dec("120"),
		TaxRate:     dec("0.19"),
		Features:    FeatureSet{"Content": {"FullServiceFlatFee": 2}},
	}
	est := CalculateEstimate(sel, cat)

	assertDecimal(t, "2", est.BaseHours, "BaseHours")
	assertDecimal(t, "0", est.FeatureHours, "FeatureHours")
	assertDecimal(t, "1", est.BufferHours, "BufferHours")
	assertDecimal(t, "3000", est.FlatFees, "FlatFees")
	// 3 hours * 120 + 3000
	assertDecimal(t, "3360", est.NetPriceEUR, "NetPriceEUR")
	assertIdentities(t, est)
}

func TestCalculateEstimateZeroBufferAndTax(t *testing.T) {
	cat := DefaultCatalog()
	sel := Selection{
		ProjectType: "Migration",
		HourlyRate:  dec("80"),
		Features:    FeatureSet{"Data": {"CSV": 2, "Metafields": 1}},
	}
	est := CalculateEstimate(sel, cat)

	assert.True(t, est.BufferHours.IsZero())
	assert.True(t, est.TotalHours.Equal(est.BaseHours.Add(est.FeatureHours)))
	assert.True(t, est.GrossPriceEUR.Equal(est.NetPriceEUR))
	assertDecimal(t, "34", est.TotalHours, "TotalHours")
}

func TestCalculateEstimateUnknownKeys(t *testing.T) {
	cat := DefaultCatalog()
	sel := Selection{
		ProjectType: "Spaceship",
		HourlyRate:  dec("75"),
		Features: FeatureSet{
			"Warp":    {"Drive": 3},
			"Dev":     {"Teleporter": 2},
			"Content": {"ClientProvides": 1},
		},
	}
	est := CalculateEstimate(sel, cat)

	assert.True(t, est.BaseHours.IsZero())
	assertDecimal(t, "4", est.FeatureHours, "FeatureHours")
	assertDecimal(t, "300", est.NetPriceEUR, "NetPriceEUR")
}

func TestCalculateEstimateNegativeBufferPassesThrough(t *testing.T) {
	est := CalculateEstimate(Selection{ProjectType: "NewBuild", RiskBuffer: dec("-25"), HourlyRate: dec("75")}, DefaultCatalog())
	assertDecimal(t, "-4", est.BufferHours, "BufferHours")
	assertDecimal(t, "12", est.TotalHours, "TotalHours")
	assertIdentities(t, est)
}

func TestCalculateEstimateDefaultHourlyRate(t *testing.T) {
	cat := DefaultCatalog()
	for _, rate := range []decimal.Decimal{{}, dec("0"), dec("-10")} {
		est := CalculateEstimate(Selection{ProjectType: "Tweaks", HourlyRate: rate}, cat)
		assertDecimal(t, "150", est.NetPriceEUR, "NetPriceEUR")
	}
}

func TestCalculateEstimateNilCatalog(t *testing.T) {
	est := CalculateEstimate(Selection{
		ProjectType: "NewBuild",
		Design:      DesignCustom,
		RiskBuffer:  dec("10"),
		Features:    FeatureSet{"Dev": {"SimpleSection": 1}},
	}, nil)
	assert.True(t, est.TotalHours.IsZero())
	assert.True(t, est.GrossPriceEUR.IsZero())
}

func TestCalculateEstimateOrderIndependent(t *testing.T) {
	cat := DefaultCatalog()
	sel := Selection{
		ProjectType: "NewBuild",
		Design:      DesignCustom,
		RiskBuffer:  dec("12.5"),
		HourlyRate:  dec("85"),
		TaxRate:     dec("0.19"),
		Features: FeatureSet{
			"Dev":  {"SimpleSection": 3, "ComplexSection": 1},
			"Apps": {"Standard": 2, "TrackingAdvanced": 1},
			"Data": {"ComplexMigration": 1},
		},
	}
	first := CalculateEstimate(sel, cat)

	// Map iteration order varies between calls; decimal sums must not.
	for i := 0; i < 20; i++ {
		require.Equal(t, first.GrossPriceEUR.String(), CalculateEstimate(sel, cat).GrossPriceEUR.String())
	}
}

func TestCalculateEstimateConcurrent(t *testing.T) {
	cat := DefaultCatalog()
	sel := Selection{ProjectType: "NewBuild", RiskBuffer: dec("10"), HourlyRate: dec("75"), TaxRate: dec("0.19")}
	want := CalculateEstimate(sel, cat).GrossPriceEUR

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := CalculateEstimate(sel, cat).GrossPriceEUR
			assert.True(t, want.Equal(got))
		}()
	}
	wg.Wait()
}
