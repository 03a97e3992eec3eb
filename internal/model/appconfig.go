package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new selections
	DefaultHourlyRate float64 `json:"default_hourly_rate" env:"HOURLY_RATE"`
	DefaultVATRate    float64 `json:"default_vat_rate" env:"VAT_RATE"`
	DefaultRiskBuffer float64 `json:"default_risk_buffer" env:"RISK_BUFFER"` // percent
	DefaultDesign     string  `json:"default_design" env:"DESIGN"`           // "standard" or "custom"

	// Catalog file to load instead of the built-in catalog; empty means built-in
	CatalogPath string `json:"catalog_path" env:"CATALOG"`

	// Where exported quotes are written
	OutputDir string `json:"output_dir" env:"OUTPUT_DIR"`

	// Quote document text
	CompanyName string `json:"company_name" env:"COMPANY_NAME"`
	Disclaimer  string `json:"disclaimer" env:"DISCLAIMER"`

	// HTTP server
	ListenAddr string `json:"listen_addr" env:"ADDR"`

	Logging LoggingConfig `json:"logging" envPrefix:"LOG_"`
}

// LoggingConfig configures the zap logger built by the logging package.
type LoggingConfig struct {
	Level       string `json:"level" env:"LEVEL"`
	Format      string `json:"format" env:"FORMAT"` // "console" or "json"
	Output      string `json:"output" env:"OUTPUT"` // "stdout", "stderr" or a file path
	Development bool   `json:"development" env:"DEVELOPMENT"`
}

// DefaultDisclaimer is printed in the footer of exported quotes.
const DefaultDisclaimer = "This estimate is non-binding and valid for 30 days. " +
	"Final pricing is based on actual hours worked."

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultHourlyRate: DefaultHourlyRate.InexactFloat64(),
		DefaultVATRate:    0.19,
		DefaultRiskBuffer: 10,
		DefaultDesign:     string(DesignStandard),
		CatalogPath:       "",
		OutputDir:         ".",
		CompanyName:       "QuoteCraft",
		Disclaimer:        DefaultDisclaimer,
		ListenAddr:        ":8080",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}
