// Package input turns raw user input into a sanitized model.Selection.
//
// All coercion, clamping and defaulting happens here, once, so that
// model.CalculateEstimate only ever sees validated values.
package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/QuoteCraft/internal/model"
	"github.com/shopspring/decimal"
)

// Form field names.
const (
	FieldProjectType = "project_type"
	FieldDesign      = "design"
	FieldRiskBuffer  = "risk_buffer"
	FieldHourlyRate  = "hourly_rate"
	FieldVATRate     = "vat_rate"
	FeaturePrefix    = "feature."
)

// Bounds applied at the input boundary.
var (
	MinHourlyRate = decimal.NewFromInt(1)
	MaxHourlyRate = decimal.NewFromInt(10000)
	MaxRiskBuffer = decimal.NewFromInt(100)
	MaxVATRate    = decimal.NewFromInt(1)
)

// MaxQuantity is the largest quantity accepted for a single feature.
const MaxQuantity = 9999

// ErrBadFeatureFlag is returned for feature flags not shaped like "Module.Feature[=qty]".
var ErrBadFeatureFlag = errors.New("feature must look like Module.Feature or Module.Feature=qty")

// Result is a parsed selection plus notes about anything that was adjusted or dropped.
type Result struct {
	Selection model.Selection
	Warnings  []string
}

// ParseForm builds a Selection from form values such as those posted by the
// estimator page. Features are posted as "feature.<Module>.<Feature>=<qty>";
// a present key with an empty value counts as quantity 1.
func ParseForm(values url.Values, cat *model.Catalog) Result {
	var res Result
	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}

	sel := model.Selection{
		ProjectType: strings.TrimSpace(values.Get(FieldProjectType)),
		Design:      model.ParseDesign(values.Get(FieldDesign)),
		RiskBuffer:  RiskBuffer(values.Get(FieldRiskBuffer)),
		HourlyRate:  HourlyRate(values.Get(FieldHourlyRate)),
		TaxRate:     VATRate(values.Get(FieldVATRate)),
		Features:    model.FeatureSet{},
	}

	if _, ok := cat.ProjectType(sel.ProjectType); !ok {
		warn("unknown project type %q, base hours will be 0", sel.ProjectType)
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if strings.HasPrefix(key, FeaturePrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		module, feature, ok := strings.Cut(strings.TrimPrefix(key, FeaturePrefix), ".")
		if !ok || module == "" || feature == "" {
			warn("ignoring malformed feature field %q", key)
			continue
		}
		if !cat.HasFeature(module, feature) {
			warn("unknown feature %s.%s contributes nothing", module, feature)
		}
		sel.Features.Set(module, feature, Quantity(values.Get(key)))
	}

	res.Warnings = append(res.Warnings, ApplyVisibility(&sel, cat)...)
	res.Selection = sel
	return res
}

// ApplyVisibility drops features in modules that do not apply to the
// selection's project type and returns a note for each dropped module.
func ApplyVisibility(sel *model.Selection, cat *model.Catalog) []string {
	var notes []string
	modules := make([]string, 0, len(sel.Features))
	for module := range sel.Features {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	for _, module := range modules {
		if cat.IsHidden(sel.ProjectType, module) {
			sel.Features.Remove(module)
			notes = append(notes, fmt.Sprintf("module %s does not apply to %s and was removed", module, sel.ProjectType))
		}
	}
	return notes
}

// HourlyRate parses a rate, falling back to the default for blank, invalid or
// zero input, and clamps it to [MinHourlyRate, MaxHourlyRate].
func HourlyRate(raw string) decimal.Decimal {
	rate, ok := parseDecimal(raw)
	if !ok || rate.IsZero() {
		rate = model.DefaultHourlyRate
	}
	return clamp(rate, MinHourlyRate, MaxHourlyRate)
}

// VATRate parses a tax fraction, falling back to zero, and clamps it to [0, 1].
func VATRate(raw string) decimal.Decimal {
	rate, ok := parseDecimal(raw)
	if !ok {
		rate = decimal.Zero
	}
	return clamp(rate, decimal.Zero, MaxVATRate)
}

// RiskBuffer parses a percentage, falling back to zero, and clamps it to [0, 100].
func RiskBuffer(raw string) decimal.Decimal {
	pct, ok := parseDecimal(raw)
	if !ok {
		pct = decimal.Zero
	}
	return clamp(pct, decimal.Zero, MaxRiskBuffer)
}

// Quantity parses a feature quantity, falling back to 1 for blank, invalid or
// zero input, and clamps it to [1, MaxQuantity].
func Quantity(raw string) int {
	qty, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(qty) || qty == 0 {
		return 1
	}
	switch {
	case qty < 1:
		return 1
	case qty > MaxQuantity:
		return MaxQuantity
	default:
		return int(qty)
	}
}

// ParseFeatureFlag parses "Module.Feature" or "Module.Feature=qty".
func ParseFeatureFlag(s string) (module, feature string, qty int, err error) {
	spec, rawQty, hasQty := strings.Cut(strings.TrimSpace(s), "=")
	module, feature, ok := strings.Cut(spec, ".")
	module = strings.TrimSpace(module)
	feature = strings.TrimSpace(feature)
	if !ok || module == "" || feature == "" {
		return "", "", 0, fmt.Errorf("%w: %q", ErrBadFeatureFlag, s)
	}
	qty = 1
	if hasQty {
		qty = Quantity(rawQty)
	}
	return module, feature, qty, nil
}

// Raw is the JSON shape of an estimate request. Numbers may be sent either
// as JSON numbers or as strings.
type Raw struct {
	ProjectType string                            `json:"project_type"`
	Design      string                            `json:"design"`
	RiskBuffer  json.Number                       `json:"risk_buffer"`
	HourlyRate  json.Number                       `json:"hourly_rate"`
	VATRate     json.Number                       `json:"vat_rate"`
	Features    map[string]map[string]json.Number `json:"features"`
}

// Values converts the request to form values so both shapes share ParseForm.
func (r Raw) Values() url.Values {
	v := url.Values{}
	v.Set(FieldProjectType, r.ProjectType)
	v.Set(FieldDesign, r.Design)
	v.Set(FieldRiskBuffer, r.RiskBuffer.String())
	v.Set(FieldHourlyRate, r.HourlyRate.String())
	v.Set(FieldVATRate, r.VATRate.String())
	for module, features := range r.Features {
		for feature, qty := range features {
			// An explicit zero unticks the feature.
			if f, err := qty.Float64(); err == nil && f <= 0 {
				continue
			}
			v.Set(FeaturePrefix+module+"."+feature, qty.String())
		}
	}
	return v
}

func parseDecimal(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	return decimal.Max(lo, decimal.Min(hi, v))
}
