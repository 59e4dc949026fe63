// Package config loads the settings of the dca command from YAML files,
// .env files and DCA_ environment variables.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/brookluers/dcurves"
)

// Config holds all configuration settings
type Config struct {
	// Analyses run by the batch command
	Analyses []Analysis `mapstructure:"analyses" yaml:"analyses"`

	// Where and how results are written
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Logging settings
	Log LogConfig `mapstructure:"log" yaml:"log"`

	// Maximum number of analyses run at once
	Jobs int `mapstructure:"jobs" yaml:"jobs"`
}

// Analysis describes one decision curve analysis.
type Analysis struct {
	Name string `mapstructure:"name" yaml:"name"`

	// CSV file or binary column directory
	Data string `mapstructure:"data" yaml:"data"`

	Outcome      string   `mapstructure:"outcome" yaml:"outcome"`
	Models       []string `mapstructure:"models" yaml:"models"`
	ModelsToProb []string `mapstructure:"models_to_prob" yaml:"models_to_prob,omitempty"`

	// Explicit thresholds, or a (lower, upper, step) range
	Thresholds  []float64 `mapstructure:"thresholds" yaml:"thresholds,omitempty"`
	ThreshRange []float64 `mapstructure:"thresh_range" yaml:"thresh_range,omitempty"`

	Harm             map[string]float64 `mapstructure:"harm" yaml:"harm,omitempty"`
	Prevalence       *float64           `mapstructure:"prevalence" yaml:"prevalence,omitempty"`
	Time             *float64           `mapstructure:"time" yaml:"time,omitempty"`
	TimeToOutcomeCol string             `mapstructure:"time_to_outcome_col" yaml:"time_to_outcome_col,omitempty"`
	NPer             int                `mapstructure:"nper" yaml:"nper,omitempty"`

	Plot PlotConfig `mapstructure:"plot" yaml:"plot,omitempty"`
}

// PlotConfig describes an optional decision curve plot.  No plot is made
// if File is empty.
type PlotConfig struct {
	File      string    `mapstructure:"file" yaml:"file,omitempty"`
	GraphType string    `mapstructure:"graph_type" yaml:"graph_type,omitempty"`
	YLimits   []float64 `mapstructure:"y_limits" yaml:"y_limits,omitempty"`
	Colors    []string  `mapstructure:"colors" yaml:"colors,omitempty"`
}

type OutputConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Format string `mapstructure:"format" yaml:"format"` // "csv" or "json"
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    ".",
			Format: "csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Jobs: 4,
	}
}

// Load loads configuration from file.  An empty path searches for
// dca.yaml in the working directory and in $HOME/.dcurves.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("jobs", cfg.Jobs)

	v.SetEnvPrefix("DCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dca")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".dcurves"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.  godotenv does not
// override variables that are already set.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}

// Validate checks the settings that do not depend on the data.
func (c *Config) Validate() error {

	switch c.Output.Format {
	case "csv", "json":
	default:
		return fmt.Errorf("output format must be csv or json, got %q", c.Output.Format)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got %q", c.Log.Format)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must be non-negative, got %d", c.Jobs)
	}

	seen := make(map[string]bool)
	for i, a := range c.Analyses {
		if a.Name == "" {
			return fmt.Errorf("analysis %d has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate analysis name %q", a.Name)
		}
		seen[a.Name] = true
		if err := a.Validate(); err != nil {
			return fmt.Errorf("analysis %q: %w", a.Name, err)
		}
	}

	return nil
}

// Validate checks that the analysis names its data, outcome and models.
func (a *Analysis) Validate() error {
	switch {
	case a.Data == "":
		return fmt.Errorf("no data")
	case a.Outcome == "":
		return fmt.Errorf("no outcome")
	case len(a.Models) == 0:
		return fmt.Errorf("no models")
	case len(a.Thresholds) > 0 && len(a.ThreshRange) > 0:
		return fmt.Errorf("thresholds and thresh_range cannot both be set")
	}
	return nil
}

// Options returns the analysis settings as DCA options.
func (a *Analysis) Options() (*dcurves.Options, error) {

	thresholds := a.Thresholds
	if len(a.ThreshRange) > 0 {
		var err error
		if thresholds, err = ExpandRange(a.ThreshRange); err != nil {
			return nil, err
		}
	}

	return &dcurves.Options{
		Thresholds:       thresholds,
		Harm:             a.Harm,
		ModelsToProb:     a.ModelsToProb,
		Prevalence:       a.Prevalence,
		Time:             a.Time,
		TimeToOutcomeCol: a.TimeToOutcomeCol,
		NPer:             a.NPer,
	}, nil
}

// ExpandRange returns lower, lower+step, ..., up to upper inclusive.
func ExpandRange(r []float64) ([]float64, error) {

	if err := dcurves.ValidateThreshTriple(r); err != nil {
		return nil, err
	}
	lo, hi, step := r[0], r[1], r[2]

	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	th := make([]float64, n)
	for i := range th {
		// Round to suppress accumulated representation error
		th[i] = math.Round((lo+float64(i)*step)*1e12) / 1e12
	}

	return th, nil
}

// String returns the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# %v\n", err)
	}
	return string(data)
}

// Save saves configuration to file
func (c *Config) Save(path string) error {

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
