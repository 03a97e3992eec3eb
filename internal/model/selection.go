package model

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Design is the visual design option chosen for the project.
type Design string

const (
	DesignStandard Design = "standard"
	DesignCustom   Design = "custom"
)

// ParseDesign maps user input to a Design. Anything other than "custom"
// is treated as standard.
func ParseDesign(s string) Design {
	if strings.EqualFold(strings.TrimSpace(s), string(DesignCustom)) {
		return DesignCustom
	}
	return DesignStandard
}

// FeatureSet maps module key to feature key to quantity.
type FeatureSet map[string]map[string]int

// Set records a quantity for a module feature, creating the module entry if needed.
func (fs FeatureSet) Set(module, feature string, qty int) {
	if fs[module] == nil {
		fs[module] = make(map[string]int)
	}
	fs[module][feature] = qty
}

// Quantity returns the quantity selected for a module feature, or zero.
func (fs FeatureSet) Quantity(module, feature string) int {
	return fs[module][feature]
}

// Remove drops a whole module from the set.
func (fs FeatureSet) Remove(module string) {
	delete(fs, module)
}

// Len returns the number of entries with a positive quantity.
func (fs FeatureSet) Len() int {
	n := 0
	for _, features := range fs {
		for _, qty := range features {
			if qty > 0 {
				n++
			}
		}
	}
	return n
}

// Merge copies every entry of other into fs, overwriting existing quantities.
func (fs FeatureSet) Merge(other FeatureSet) {
	for module, features := range other {
		for feature, qty := range features {
			fs.Set(module, feature, qty)
		}
	}
}

// FeatureEntry is one flattened (module, feature, quantity) triple.
type FeatureEntry struct {
	Module   string
	Feature  string
	Quantity int
}

// Entries returns the positive-quantity entries sorted by module then feature.
func (fs FeatureSet) Entries() []FeatureEntry {
	var out []FeatureEntry
	for module, features := range fs {
		for feature, qty := range features {
			if qty > 0 {
				out = append(out, FeatureEntry{Module: module, Feature: feature, Quantity: qty})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Module != out[j].Module {
			return out[i].Module < out[j].Module
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

// Selection is the sanitized input to CalculateEstimate.
type Selection struct {
	ProjectType string          `json:"project_type"`
	Design      Design          `json:"design"`
	RiskBuffer  decimal.Decimal `json:"risk_buffer"` // percent
	HourlyRate  decimal.Decimal `json:"hourly_rate"` // EUR per hour
	TaxRate     decimal.Decimal `json:"tax_rate"`    // fraction, 0.19 = 19%
	Features    FeatureSet      `json:"features"`
}

// NewSelection returns a selection for a project type with the application defaults.
func NewSelection(projectType string, cfg AppConfig) Selection {
	return Selection{
		ProjectType: projectType,
		Design:      ParseDesign(cfg.DefaultDesign),
		RiskBuffer:  decimal.NewFromFloat(cfg.DefaultRiskBuffer),
		HourlyRate:  decimal.NewFromFloat(cfg.DefaultHourlyRate),
		TaxRate:     decimal.NewFromFloat(cfg.DefaultVATRate),
		Features:    FeatureSet{},
	}
}
