package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDesign(t *testing.T) {
	assert.Equal(t, DesignCustom, ParseDesign("custom"))
	assert.Equal(t, DesignCustom, ParseDesign(" Custom "))
	assert.Equal(t, DesignStandard, ParseDesign("standard"))
	assert.Equal(t, DesignStandard, ParseDesign(""))
	assert.Equal(t, DesignStandard, ParseDesign("template"))
}

func TestFeatureSetOperations(t *testing.T) {
	fs := FeatureSet{}
	fs.Set("Dev", "SimpleSection", 2)
	fs.Set("Apps", "Standard", 1)
	fs.Set("Apps", "Complex", 0)

	assert.Equal(t, 2, fs.Quantity("Dev", "SimpleSection"))
	assert.Equal(t, 0, fs.Quantity("Missing", "Feature"))
	assert.Equal(t, 2, fs.Len())

	entries := fs.Entries()
	assert.Equal(t, []FeatureEntry{
		{Module: "Apps", Feature: "Standard", Quantity: 1},
		{Module: "Dev", Feature: "SimpleSection", Quantity: 2},
	}, entries)

	fs.Merge(FeatureSet{"Dev": {"SimpleSection": 5}, "Data": {"CSV": 1}})
	assert.Equal(t, 5, fs.Quantity("Dev", "SimpleSection"))
	assert.Equal(t, 1, fs.Quantity("Data", "CSV"))

	fs.Remove("Dev")
	assert.Equal(t, 0, fs.Quantity("Dev", "SimpleSection"))
}

func TestNewSelectionUsesConfigDefaults(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultDesign = "custom"
	cfg.DefaultHourlyRate = 95

	sel := NewSelection("Tweaks", cfg)
	assert.Equal(t, "Tweaks", sel.ProjectType)
	assert.Equal(t, DesignCustom, sel.Design)
	assertDecimal(t, "95", sel.HourlyRate, "HourlyRate")
	assertDecimal(t, "0.19", sel.TaxRate, "TaxRate")
	assertDecimal(t, "10", sel.RiskBuffer, "RiskBuffer")
	assert.NotNil(t, sel.Features)
}
