package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogLookups(t *testing.T) {
	cat := DefaultCatalog()

	assertDecimal(t, "6", cat.BaseHours("Audit"), "Audit")
	assertDecimal(t, "2", cat.BaseHours("Tweaks"), "Tweaks")
	assertDecimal(t, "16", cat.BaseHours("NewBuild"), "NewBuild")
	assertDecimal(t, "24", cat.BaseHours("Migration"), "Migration")
	assertDecimal(t, "10", cat.BaseHours("CustomApp"), "CustomApp")
	assert.True(t, cat.BaseHours("Unknown").IsZero())

	f := cat.FeatureCost("Dev", "ComplexSection")
	assert.Equal(t, CostHours, f.Kind)
	assertDecimal(t, "6", f.Cost, "ComplexSection")

	fee := cat.FeatureCost("Content", "FullServiceFlatFee")
	assert.True(t, fee.IsFlatFee())
	assertDecimal(t, "1500", fee.Cost, "FullServiceFlatFee")

	missing := cat.FeatureCost("Nope", "Nothing")
	assert.False(t, missing.IsFlatFee())
	assert.True(t, missing.Cost.IsZero())

	assert.Equal(t, "Dev", cat.MultiplierModule())
	assertDecimal(t, "1.3", cat.CustomMultiplier(), "multiplier")
}

func TestCatalogOrderAndHiddenModules(t *testing.T) {
	cat := DefaultCatalog()

	assert.Equal(t, []string{"Audit", "Tweaks", "NewBuild", "Migration", "CustomApp"}, cat.ProjectTypeNames())

	var modules []string
	for _, m := range cat.Modules() {
		modules = append(modules, m.Key)
	}
	assert.Equal(t, []string{"Data", "Dev", "Apps", "Commerce", "Content"}, modules)

	assert.True(t, cat.IsHidden("Audit", "Dev"))
	assert.True(t, cat.IsHidden("Migration", "Apps"))
	assert.False(t, cat.IsHidden("Migration", "Dev"))
	assert.False(t, cat.IsHidden("Tweaks", "Apps"))
	assert.False(t, cat.IsHidden("Unknown", "Apps"))
}

func TestNilCatalogIsSafe(t *testing.T) {
	var cat *Catalog
	assert.True(t, cat.BaseHours("NewBuild").IsZero())
	assert.True(t, cat.FeatureCost("Dev", "SimpleSection").Cost.IsZero())
	assert.False(t, cat.HasFeature("Dev", "SimpleSection"))
	assert.Empty(t, cat.Modules())
	assert.Empty(t, cat.ProjectTypes())
	assert.False(t, cat.IsHidden("Audit", "Dev"))
	assertDecimal(t, "1", cat.CustomMultiplier(), "multiplier")
}

func TestCatalogDefinitionRoundTrip(t *testing.T) {
	cat := DefaultCatalog()
	again, err := NewCatalog(cat.Definition())
	require.NoError(t, err)

	assert.Equal(t, cat.ProjectTypeNames(), again.ProjectTypeNames())
	assert.True(t, again.FeatureCost("Content", "FullServiceFlatFee").IsFlatFee())
	assertDecimal(t, "1.3", again.CustomMultiplier(), "multiplier")
	assertDecimal(t, "12", again.FeatureCost("Apps", "B2B_Plus").Cost, "B2B_Plus")
}

func TestNewCatalogAddsFlatFeeWithoutCodeChanges(t *testing.T) {
	def := DefaultCatalogDefinition()
	def.Modules[0].Features = append(def.Modules[0].Features, FeatureDefinition{
		Key: "DataAuditFee", Kind: "flat_fee", Cost: 250,
	})
	cat, err := NewCatalog(def)
	require.NoError(t, err)

	est := CalculateEstimate(Selection{
		ProjectType: "Tweaks",
		HourlyRate:  dec("75"),
		Features:    FeatureSet{"Data": {"DataAuditFee": 2}},
	}, cat)
	assertDecimal(t, "500", est.FlatFees, "FlatFees")
	assertDecimal(t, "2", est.TotalHours, "TotalHours")
	assertDecimal(t, "650", est.NetPriceEUR, "NetPriceEUR")
	assert.Equal(t, "DataAuditFee", cat.FeatureCost("Data", "DataAuditFee").Label)
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CatalogDefinition)
		want   string
	}{
		{"negative base hours", func(d *CatalogDefinition) { d.ProjectTypes[0].BaseHours = -1 }, "negative base hours"},
		{"negative cost", func(d *CatalogDefinition) { d.Modules[1].Features[0].Cost = -2 }, "negative cost"},
		{"duplicate project type", func(d *CatalogDefinition) { d.ProjectTypes[1].Key = "Audit" }, "duplicate project type"},
		{"duplicate module", func(d *CatalogDefinition) { d.Modules[1].Key = "Data" }, "duplicate module"},
		{"feature in two modules", func(d *CatalogDefinition) { d.Modules[1].Features[0].Key = "CSV" }, "defined in both"},
		{"unknown kind", func(d *CatalogDefinition) { d.Modules[0].Features[0].Kind = "barter" }, "unknown cost kind"},
		{"zero multiplier", func(d *CatalogDefinition) { d.CustomDesign.Factor = 0 }, "factor must be positive"},
		{"missing multiplier module", func(d *CatalogDefinition) { d.CustomDesign.Module = "Design" }, "custom design module"},
		{"unknown hidden module", func(d *CatalogDefinition) { d.ProjectTypes[0].HiddenModules = []string{"Ghost"} }, "hidden module"},
		{"empty feature key", func(d *CatalogDefinition) { d.Modules[0].Features[0].Key = " " }, "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := DefaultCatalogDefinition()
			tt.mutate(&def)
			cat, err := NewCatalog(def)
			require.Error(t, err)
			assert.Nil(t, cat)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCatalogValidationReportsAllProblems(t *testing.T) {
	def := DefaultCatalogDefinition()
	def.ProjectTypes[0].BaseHours = -1
	def.CustomDesign.Factor = -1

	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative base hours")
	assert.Contains(t, err.Error(), "factor must be positive")
}

func TestParseCostKind(t *testing.T) {
	kind, err := ParseCostKind("")
	require.NoError(t, err)
	assert.Equal(t, CostHours, kind)

	kind, err = ParseCostKind("FLAT_FEE")
	require.NoError(t, err)
	assert.Equal(t, CostFlatFee, kind)

	_, err = ParseCostKind("weekly")
	assert.Error(t, err)
}
