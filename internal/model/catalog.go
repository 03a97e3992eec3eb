package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidCatalog is returned (wrapped) when a catalog definition fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// CostKind tags how a feature's cost is interpreted.
type CostKind int

const (
	// CostHours means the cost is a number of labor hours per unit.
	CostHours CostKind = iota
	// CostFlatFee means the cost is a fixed EUR amount per unit.
	CostFlatFee
)

// String returns the catalog file representation of the kind.
func (k CostKind) String() string {
	switch k {
	case CostHours:
		return "hours"
	case CostFlatFee:
		return "flat_fee"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CostKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CostKind) UnmarshalText(b []byte) error {
	parsed, err := ParseCostKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseCostKind converts a catalog file string into a CostKind.
// An empty string means hours.
func ParseCostKind(s string) (CostKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hours", "hour":
		return CostHours, nil
	case "flat_fee", "flat", "fee":
		return CostFlatFee, nil
	default:
		return CostHours, fmt.Errorf("unknown cost kind %q", s)
	}
}

// ProjectType is a catalog entry for one kind of project.
type ProjectType struct {
	Key       string
	Label     string
	BaseHours decimal.Decimal
	// HiddenModules lists modules that do not apply to this project type.
	HiddenModules []string
}

// Feature is a selectable line item inside a module.
type Feature struct {
	Key   string
	Label string
	Kind  CostKind
	Cost  decimal.Decimal // hours per unit, or EUR per unit for CostFlatFee
}

// IsFlatFee reports whether the feature is charged as a fixed amount.
func (f Feature) IsFlatFee() bool {
	return f.Kind == CostFlatFee
}

// Module groups related features.
type Module struct {
	Key      string
	Label    string
	Features []Feature
}

// Feature returns the feature with the given key, or false.
func (m Module) Feature(key string) (Feature, bool) {
	for _, f := range m.Features {
		if f.Key == key {
			return f, true
		}
	}
	return Feature{}, false
}

// Catalog is the read-only reference data the estimator prices against.
// A Catalog is never mutated after NewCatalog returns, so a single instance
// can be shared across goroutines.
type Catalog struct {
	types            map[string]ProjectType
	typeOrder        []string
	modules          map[string]Module
	moduleOrder      []string
	featureIndex     map[string]map[string]Feature
	multiplierModule string
	customMultiplier decimal.Decimal
}

// NewCatalog builds a Catalog from a definition and validates it.
// All validation failures are reported together.
func NewCatalog(def CatalogDefinition) (*Catalog, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	c := &Catalog{
		types:            make(map[string]ProjectType, len(def.ProjectTypes)),
		modules:          make(map[string]Module, len(def.Modules)),
		featureIndex:     make(map[string]map[string]Feature, len(def.Modules)),
		multiplierModule: def.CustomDesign.Module,
		customMultiplier: decimal.NewFromFloat(def.CustomDesign.Factor),
	}

	for _, pt := range def.ProjectTypes {
		hidden := make([]string, len(pt.HiddenModules))
		copy(hidden, pt.HiddenModules)
		c.types[pt.Key] = ProjectType{
			Key:           pt.Key,
			Label:         labelOrKey(pt.Label, pt.Key),
			BaseHours:     decimal.NewFromFloat(pt.BaseHours),
			HiddenModules: hidden,
		}
		c.typeOrder = append(c.typeOrder, pt.Key)
	}

	for _, md := range def.Modules {
		mod := Module{Key: md.Key, Label: labelOrKey(md.Label, md.Key)}
		index := make(map[string]Feature, len(md.Features))
		for _, fd := range md.Features {
			// Kind was checked by Validate.
			kind, _ := ParseCostKind(fd.Kind)
			f := Feature{
				Key:   fd.Key,
				Label: labelOrKey(fd.Label, fd.Key),
				Kind:  kind,
				Cost:  decimal.NewFromFloat(fd.Cost),
			}
			mod.Features = append(mod.Features, f)
			index[f.Key] = f
		}
		c.modules[mod.Key] = mod
		c.featureIndex[mod.Key] = index
		c.moduleOrder = append(c.moduleOrder, mod.Key)
	}

	return c, nil
}

// MustCatalog is like NewCatalog but panics on an invalid definition.
// It is intended for built-in definitions only.
func MustCatalog(def CatalogDefinition) *Catalog {
	c, err := NewCatalog(def)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultCatalogDefinition())
}

// BaseHours returns the base hours for a project type, or zero if unknown.
func (c *Catalog) BaseHours(projectType string) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if pt, ok := c.types[projectType]; ok {
		return pt.BaseHours
	}
	return decimal.Zero
}

// FeatureCost returns the feature for a module and feature key. Unknown
// entries come back as a zero-cost hours feature, so callers never need
// to special-case them.
func (c *Catalog) FeatureCost(module, feature string) Feature {
	if c != nil {
		if f, ok := c.featureIndex[module][feature]; ok {
			return f
		}
	}
	return Feature{Key: feature, Label: feature, Kind: CostHours, Cost: decimal.Zero}
}

// HasFeature reports whether the module and feature are known.
func (c *Catalog) HasFeature(module, feature string) bool {
	if c == nil {
		return false
	}
	_, ok := c.featureIndex[module][feature]
	return ok
}

// ProjectType returns the project type with the given key, or false.
func (c *Catalog) ProjectType(key string) (ProjectType, bool) {
	if c == nil {
		return ProjectType{}, false
	}
	pt, ok := c.types[key]
	return pt, ok
}

// Module returns the module with the given key, or false.
func (c *Catalog) Module(key string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	m, ok := c.modules[key]
	return m, ok
}

// ProjectTypes returns all project types in definition order.
func (c *Catalog) ProjectTypes() []ProjectType {
	if c == nil {
		return nil
	}
	out := make([]ProjectType, 0, len(c.typeOrder))
	for _, key := range c.typeOrder {
		out = append(out, c.types[key])
	}
	return out
}

// Modules returns all modules in definition order.
func (c *Catalog) Modules() []Module {
	if c == nil {
		return nil
	}
	out := make([]Module, 0, len(c.moduleOrder))
	for _, key := range c.moduleOrder {
		out = append(out, c.modules[key])
	}
	return out
}

// ProjectTypeNames returns the project type keys in definition order.
func (c *Catalog) ProjectTypeNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.typeOrder))
	copy(names, c.typeOrder)
	return names
}

// MultiplierModule returns the module whose hours scale with a custom design.
func (c *Catalog) MultiplierModule() string {
	if c == nil {
		return ""
	}
	return c.multiplierModule
}

// CustomMultiplier returns the factor applied to the multiplier module's
// hours when the design is custom. A nil catalog returns one.
func (c *Catalog) CustomMultiplier() decimal.Decimal {
	if c == nil {
		return decimal.NewFromInt(1)
	}
	return c.customMultiplier
}

// IsHidden reports whether a module does not apply to the given project type.
func (c *Catalog) IsHidden(projectType, module string) bool {
	pt, ok := c.ProjectType(projectType)
	if !ok {
		return false
	}
	for _, m := range pt.HiddenModules {
		if m == module {
			return true
		}
	}
	return false
}

// Definition converts the catalog back into its file representation.
func (c *Catalog) Definition() CatalogDefinition {
	def := CatalogDefinition{
		CustomDesign: MultiplierDefinition{
			Module: c.MultiplierModule(),
			Factor: c.CustomMultiplier().InexactFloat64(),
		},
	}
	for _, pt := range c.ProjectTypes() {
		hidden := make([]string, len(pt.HiddenModules))
		copy(hidden, pt.HiddenModules)
		def.ProjectTypes = append(def.ProjectTypes, ProjectTypeDefinition{
			Key:           pt.Key,
			Label:         pt.Label,
			BaseHours:     pt.BaseHours.InexactFloat64(),
			HiddenModules: hidden,
		})
	}
	for _, m := range c.Modules() {
		md := ModuleDefinition{Key: m.Key, Label: m.Label}
		for _, f := range m.Features {
			md.Features = append(md.Features, FeatureDefinition{
				Key:   f.Key,
				Label: f.Label,
				Kind:  f.Kind.String(),
				Cost:  f.Cost.InexactFloat64(),
			})
		}
		def.Modules = append(def.Modules, md)
	}
	return def
}

func labelOrKey(label, key string) string {
	if strings.TrimSpace(label) == "" {
		return key
	}
	return label
}
