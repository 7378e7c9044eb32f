// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"enrolltrend/pkg/model"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "enroll"

// Config represents the application configuration.
type Config struct {
	// Source resource
	SourceURI     string        `envconfig:"SOURCE_URI" default:"data/studierende_nrw.csv"`
	SourceTimeout time.Duration `envconfig:"SOURCE_TIMEOUT" default:"30s"`

	// Input schema
	Delimiter  string   `envconfig:"DELIMITER" default:";"`
	SkipLines  int      `envconfig:"SKIP_LINES" default:"6"`
	NullTokens []string `envconfig:"NULL_TOKENS" default:"-,NA"`
	Encoding   string   `envconfig:"ENCODING" default:"latin1"`

	// Cleaning
	Universities   []string `envconfig:"UNIVERSITIES"`
	AggregateLabel string   `envconfig:"AGGREGATE_LABEL" default:"Uni Total"`

	// Artifacts
	OutputDir   string `envconfig:"OUTPUT_DIR" default:"output"`
	ChartFile   string `envconfig:"CHART_FILE" default:"enrollment.png"`
	GIFFile     string `envconfig:"GIF_FILE" default:"enrollment.gif"`
	CSVFile     string `envconfig:"CSV_FILE" default:"enrollment_clean.csv"`
	ExcelFile   string `envconfig:"EXCEL_FILE" default:"enrollment_clean.xlsx"`
	AuditDBFile string `envconfig:"AUDIT_DB_FILE" default:"imputations.sqlite"`

	// Chart display
	Colors      map[string]string `envconfig:"COLORS"`
	YMax        float64           `envconfig:"Y_MAX" default:"3000"`
	ChartWidth  float64           `envconfig:"CHART_WIDTH" default:"8"`  // inches
	ChartHeight float64           `envconfig:"CHART_HEIGHT" default:"5"` // inches
	FrameDelay  int               `envconfig:"FRAME_DELAY" default:"50"` // 1/100 s per frame
	FinalHold   int               `envconfig:"FINAL_HOLD" default:"200"` // 1/100 s on last frame

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// defaultUniversities are the three institutions tracked by the original
// report. The filter is exact-match and case-sensitive on these labels.
var defaultUniversities = []string{
	"Universität Bonn",
	"Universität Bochum",
	"Universität Bielefeld",
}

// defaultColors maps series names to line colors. The aggregate series color
// is keyed under the default aggregate label.
var defaultColors = map[string]string{
	"Universität Bonn":      "#1b9e77",
	"Universität Bochum":    "#d95f02",
	"Universität Bielefeld": "#7570b3",
	"Uni Total":             "#666666",
}

// Load loads configuration from environment variables, applying defaults
// that reproduce the original report.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if len(cfg.Universities) == 0 {
		cfg.Universities = append(cfg.Universities, defaultUniversities...)
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = make(map[string]string, len(defaultColors))
		for name, hex := range defaultColors {
			cfg.Colors[name] = hex
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid.
func (c *Config) Validate() error {
	if c.SourceURI == "" {
		return errors.New("source URI is required")
	}

	if len(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}

	if c.SkipLines < 0 {
		return errors.New("skip lines cannot be negative")
	}

	if len(c.Universities) == 0 {
		return errors.New("at least one target university is required")
	}

	if c.AggregateLabel == "" {
		return errors.New("aggregate label is required")
	}

	if c.YMax <= 0 {
		return errors.New("y axis maximum must be positive")
	}

	if c.FrameDelay <= 0 {
		return errors.New("frame delay must be positive")
	}

	return nil
}

// Schema returns the input table schema derived from the configuration.
func (c *Config) Schema() model.TableSchema {
	return model.TableSchema{
		Delimiter:  rune(c.Delimiter[0]),
		SkipLines:  c.SkipLines,
		Columns:    []string{"Semester", "University", "Total", "Male", "Female"},
		NullTokens: c.NullTokens,
		Encoding:   c.Encoding,
	}
}

// Artifact path helpers; all artifacts live under OutputDir.

func (c *Config) ChartPath() string { return filepath.Join(c.OutputDir, c.ChartFile) }
func (c *Config) GIFPath() string   { return filepath.Join(c.OutputDir, c.GIFFile) }
func (c *Config) CSVPath() string   { return filepath.Join(c.OutputDir, c.CSVFile) }
func (c *Config) ExcelPath() string { return filepath.Join(c.OutputDir, c.ExcelFile) }
func (c *Config) AuditDBPath() string {
	return filepath.Join(c.OutputDir, c.AuditDBFile)
}
