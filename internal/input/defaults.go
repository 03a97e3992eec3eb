package input

import (
	"net/url"
	"strconv"

	"github.com/piwi3910/QuoteCraft/internal/model"
)

// ApplyDefaults fills blank pricing fields from the app config, the way the
// estimator form is pre-filled. Fields that are present, even as "0", are kept.
func ApplyDefaults(values url.Values, cfg model.AppConfig) {
	seed := model.NewSelection(values.Get(FieldProjectType), cfg)
	defaults := map[string]string{
		FieldDesign:     string(seed.Design),
		FieldRiskBuffer: seed.RiskBuffer.String(),
		FieldHourlyRate: seed.HourlyRate.String(),
		FieldVATRate:    seed.TaxRate.String(),
	}
	for field, value := range defaults {
		if values.Get(field) == "" {
			values.Set(field, value)
		}
	}
}

// FeatureValues adds one "feature.<Module>.<Feature>" entry per positive
// quantity in fs, replacing any existing value for that key.
func FeatureValues(values url.Values, fs model.FeatureSet) {
	for _, e := range fs.Entries() {
		values.Set(FeaturePrefix+e.Module+"."+e.Feature, strconv.Itoa(e.Quantity))
	}
}
