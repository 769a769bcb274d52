package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/siteaudit/domain"
	"github.com/ludo-technologies/siteaudit/internal/constants"
)

// Default pipeline settings
const (
	// DefaultValidationPolicy keeps partial crawl data flowing to reports
	DefaultValidationPolicy = "tolerant"

	// DefaultOutputDirectory is where report artifacts land
	DefaultOutputDirectory = "reports"

	// DefaultJobs of 0 means one normalization worker per CPU
	DefaultJobs = 0
)

// Config represents the main configuration structure
type Config struct {
	// Normalize holds normalization settings
	Normalize NormalizeConfig `json:"normalize" mapstructure:"normalize" yaml:"normalize"`

	// Validation holds validation settings
	Validation ValidateConfig `json:"validate" mapstructure:"validate" yaml:"validate"`

	// Output holds report output settings
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// HTML holds hypertext report settings
	HTML HTMLConfig `json:"html" mapstructure:"html" yaml:"html"`
}

// NormalizeConfig holds configuration for the normalization stage
type NormalizeConfig struct {
	// Jobs bounds the parallel normalization fan-out; 0 means NumCPU
	Jobs int `json:"jobs" mapstructure:"jobs" yaml:"jobs"`
}

// ValidateConfig holds configuration for the validation stage
type ValidateConfig struct {
	// Policy is "fail-fast" or "tolerant"
	Policy string `json:"policy" mapstructure:"policy" yaml:"policy"`

	// Required lists categories that must be present on every tested page
	Required []string `json:"required" mapstructure:"required" yaml:"required"`
}

// OutputConfig holds configuration for report emission
type OutputConfig struct {
	// Formats lists the report formats to emit: json, yaml, csv, markdown, html
	Formats []string `json:"formats" mapstructure:"formats" yaml:"formats"`

	// Directory is where report artifacts are written
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`

	// Pretty enables indented structured output
	Pretty bool `json:"pretty" mapstructure:"pretty" yaml:"pretty"`
}

// HTMLConfig holds configuration for the hypertext report
type HTMLConfig struct {
	// IncludePageDetail expands per-page issue lists
	IncludePageDetail bool `json:"include_page_detail" mapstructure:"include_page_detail" yaml:"include_page_detail"`

	// Badges controls whether the certificate badge is rendered
	Badges bool `json:"badges" mapstructure:"badges" yaml:"badges"`
}

// DefaultConfig returns the configuration used when no file is found
func DefaultConfig() *Config {
	return &Config{
		Normalize:  NormalizeConfig{Jobs: DefaultJobs},
		Validation: ValidateConfig{Policy: DefaultValidationPolicy},
		Output: OutputConfig{
			Formats:   []string{"html"},
			Directory: DefaultOutputDirectory,
			Pretty:    true,
		},
		HTML: HTMLConfig{
			IncludePageDetail: true,
			Badges:            true,
		},
	}
}

// LoadConfig loads configuration from the given file, or discovers one near
// the current directory. Environment variables prefixed with SITEAUDIT_
// override file values.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig()
	}

	// A new viper instance per load avoids shared global state
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := DefaultConfig()
	if configPath == "" {
		return config, nil
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("reading config file %s", configPath), err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("unmarshaling config", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// configCandidates are the file names probed during discovery
var configCandidates = []string{constants.ConfigFileName, ".siteaudit.yml", "siteaudit.yaml"}

// findDefaultConfig looks for a configuration file in the working directory
// and then the home directory
func findDefaultConfig() string {
	if cwd, err := os.Getwd(); err == nil {
		if path := searchConfigInDirectory(cwd, configCandidates); path != "" {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return searchConfigInDirectory(home, configCandidates)
	}
	return ""
}

// searchConfigInDirectory probes a directory for candidate config files
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if !domain.ValidationPolicy(c.Validation.Policy).IsValid() {
		return domain.NewConfigError(fmt.Sprintf("invalid validation policy %q (want fail-fast or tolerant)", c.Validation.Policy), nil)
	}
	for _, name := range c.Validation.Required {
		if !domain.Category(name).IsValid() {
			return domain.NewConfigError(fmt.Sprintf("unknown required category %q", name), nil)
		}
	}
	for _, name := range c.Output.Formats {
		if !domain.OutputFormat(name).IsValid() {
			return domain.NewConfigError(fmt.Sprintf("unknown output format %q", name), nil)
		}
	}
	if c.Normalize.Jobs < 0 {
		return domain.NewConfigError(fmt.Sprintf("normalize.jobs must not be negative, got %d", c.Normalize.Jobs), nil)
	}
	return nil
}

// OutputFormats converts the configured format names to typed formats
func (c *Config) OutputFormats() []domain.OutputFormat {
	formats := make([]domain.OutputFormat, 0, len(c.Output.Formats))
	for _, name := range c.Output.Formats {
		formats = append(formats, domain.OutputFormat(name))
	}
	return formats
}

// RequiredCategories converts the configured category names to typed categories
func (c *Config) RequiredCategories() []domain.Category {
	categories := make([]domain.Category, 0, len(c.Validation.Required))
	for _, name := range c.Validation.Required {
		categories = append(categories, domain.Category(name))
	}
	return categories
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("normalize", config.Normalize)
	v.Set("validate", config.Validation)
	v.Set("output", config.Output)
	v.Set("html", config.HTML)

	if err := v.WriteConfig(); err != nil {
		return domain.NewConfigError(fmt.Sprintf("writing config file %s", path), err)
	}
	return nil
}
