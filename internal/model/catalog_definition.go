package model

import (
	"errors"
	"fmt"
	"strings"
)

// CatalogDefinition is the file representation of a Catalog.
type CatalogDefinition struct {
	ProjectTypes []ProjectTypeDefinition `json:"project_types" yaml:"project_types"`
	Modules      []ModuleDefinition      `json:"modules" yaml:"modules"`
	CustomDesign MultiplierDefinition    `json:"custom_design" yaml:"custom_design"`
}

// ProjectTypeDefinition describes one project type.
type ProjectTypeDefinition struct {
	Key           string   `json:"key" yaml:"key"`
	Label         string   `json:"label,omitempty" yaml:"label,omitempty"`
	BaseHours     float64  `json:"base_hours" yaml:"base_hours"`
	HiddenModules []string `json:"hidden_modules,omitempty" yaml:"hidden_modules,omitempty"`
}

// ModuleDefinition describes one module and its features.
type ModuleDefinition struct {
	Key      string              `json:"key" yaml:"key"`
	Label    string              `json:"label,omitempty" yaml:"label,omitempty"`
	Features []FeatureDefinition `json:"features" yaml:"features"`
}

// FeatureDefinition describes one feature. Kind is "hours" (default) or "flat_fee".
type FeatureDefinition struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty"`
	Kind  string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	Cost  float64 `json:"cost" yaml:"cost"`
}

// MultiplierDefinition names the module scaled by a custom design and the factor.
type MultiplierDefinition struct {
	Module string  `json:"module" yaml:"module"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// Validate checks the definition and returns every problem found,
// wrapped in ErrInvalidCatalog.
func (d CatalogDefinition) Validate() error {
	var problems []error
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	if len(d.ProjectTypes) == 0 {
		add("no project types defined")
	}

	moduleKeys := make(map[string]bool, len(d.Modules))
	featureOwner := make(map[string]string)
	for _, m := range d.Modules {
		if strings.TrimSpace(m.Key) == "" {
			add("module with empty key")
			continue
		}
		if moduleKeys[m.Key] {
			add("duplicate module %q", m.Key)
			continue
		}
		moduleKeys[m.Key] = true

		for _, f := range m.Features {
			if strings.TrimSpace(f.Key) == "" {
				add("module %q: feature with empty key", m.Key)
				continue
			}
			if owner, ok := featureOwner[f.Key]; ok {
				if owner == m.Key {
					add("module %q: duplicate feature %q", m.Key, f.Key)
				} else {
					add("feature %q defined in both %q and %q", f.Key, owner, m.Key)
				}
				continue
			}
			featureOwner[f.Key] = m.Key
			if _, err := ParseCostKind(f.Kind); err != nil {
				add("module %q: feature %q: %v", m.Key, f.Key, err)
			}
			if f.Cost < 0 {
				add("module %q: feature %q: negative cost %v", m.Key, f.Key, f.Cost)
			}
		}
	}

	typeKeys := make(map[string]bool, len(d.ProjectTypes))
	for _, pt := range d.ProjectTypes {
		if strings.TrimSpace(pt.Key) == "" {
			add("project type with empty key")
			continue
		}
		if typeKeys[pt.Key] {
			add("duplicate project type %q", pt.Key)
			continue
		}
		typeKeys[pt.Key] = true
		if pt.BaseHours < 0 {
			add("project type %q: negative base hours %v", pt.Key, pt.BaseHours)
		}
		for _, hidden := range pt.HiddenModules {
			if !moduleKeys[hidden] {
				add("project type %q: hidden module %q is not defined", pt.Key, hidden)
			}
		}
	}

	if d.CustomDesign.Factor <= 0 {
		add("custom design factor must be positive, got %v", d.CustomDesign.Factor)
	}
	if !moduleKeys[d.CustomDesign.Module] {
		add("custom design module %q is not defined", d.CustomDesign.Module)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(problems...))
	}
	return nil
}

// DefaultCatalogDefinition returns the built-in project types and modules.
func DefaultCatalogDefinition() CatalogDefinition {
	return CatalogDefinition{
		ProjectTypes: []ProjectTypeDefinition{
			{Key: "Audit", Label: "Store Audit", BaseHours: 6, HiddenModules: []string{"Dev", "Apps", "Commerce", "Content"}},
			{Key: "Tweaks", Label: "Tweaks & Fixes", BaseHours: 2},
			{Key: "NewBuild", Label: "New Store Build", BaseHours: 16},
			{Key: "Migration", Label: "Platform Migration", BaseHours: 24, HiddenModules: []string{"Apps"}},
			{Key: "CustomApp", Label: "Custom App", BaseHours: 10, HiddenModules: []string{"Data", "Commerce", "Content"}},
		},
		Modules: []ModuleDefinition{
			{
				Key:   "Data",
				Label: "Data",
				Features: []FeatureDefinition{
					{Key: "CSV", Label: "CSV product import", Cost: 3},
					{Key: "ComplexMigration", Label: "Complex data migration", Cost: 12},
					{Key: "Metafields", Label: "Metafield setup", Cost: 4},
				},
			},
			{
				Key:   "Dev",
				Label: "Development",
				Features: []FeatureDefinition{
					{Key: "SimpleSection", Label: "Simple section", Cost: 2},
					{Key: "ComplexSection", Label: "Complex section", Cost: 6},
				},
			},
			{
				Key:   "Apps",
				Label: "Apps & Integrations",
				Features: []FeatureDefinition{
					{Key: "Standard", Label: "Standard app setup", Cost: 1},
					{Key: "Complex", Label: "Complex app integration", Cost: 6},
					{Key: "B2B_Plus", Label: "B2B (Plus)", Cost: 12},
					{Key: "TrackingBasic", Label: "Basic tracking", Cost: 1},
					{Key: "TrackingAdvanced", Label: "Advanced tracking", Cost: 7},
				},
			},
			{
				Key:   "Commerce",
				Label: "Commerce",
				Features: []FeatureDefinition{
					{Key: "Markets", Label: "Markets setup", Cost: 6},
				},
			},
			{
				Key:   "Content",
				Label: "Content",
				Features: []FeatureDefinition{
					{Key: "ClientProvides", Label: "Content entry (client provides)", Cost: 4},
					{Key: "FullServiceFlatFee", Label: "Full-service content", Kind: CostFlatFee.String(), Cost: 1500},
				},
			},
		},
		CustomDesign: MultiplierDefinition{Module: "Dev", Factor: 1.3},
	}
}
