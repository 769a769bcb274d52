package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/siteaudit/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Validation.Policy != "tolerant" {
		t.Errorf("default policy = %q, want tolerant", cfg.Validation.Policy)
	}
	if len(cfg.Output.Formats) != 1 || cfg.Output.Formats[0] != "html" {
		t.Errorf("default formats = %v, want [html]", cfg.Output.Formats)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfig_MissingPathFallsBackToDefaults(t *testing.T) {
	// Run discovery from an empty directory so no config file is found
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer func() { _ = os.Chdir(cwd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", dir)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Validation.Policy != DefaultValidationPolicy {
		t.Errorf("policy = %q, want default", cfg.Validation.Policy)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".siteaudit.yaml")
	content := []byte(`
normalize:
  jobs: 4
validate:
  policy: fail-fast
  required:
    - accessibility
    - performance
output:
  formats:
    - json
    - csv
  directory: out
  pretty: false
html:
  include_page_detail: false
  badges: true
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Normalize.Jobs != 4 {
		t.Errorf("jobs = %d, want 4", cfg.Normalize.Jobs)
	}
	if cfg.Validation.Policy != "fail-fast" {
		t.Errorf("policy = %q, want fail-fast", cfg.Validation.Policy)
	}
	required := cfg.RequiredCategories()
	if len(required) != 2 || required[0] != domain.CategoryAccessibility {
		t.Errorf("unexpected required categories: %v", required)
	}
	formats := cfg.OutputFormats()
	if len(formats) != 2 || formats[0] != domain.OutputFormatJSON || formats[1] != domain.OutputFormatCSV {
		t.Errorf("unexpected formats: %v", formats)
	}
	if cfg.Output.Directory != "out" {
		t.Errorf("directory = %q, want out", cfg.Output.Directory)
	}
	if cfg.HTML.IncludePageDetail {
		t.Error("include_page_detail should be false")
	}
}

func TestLoadConfig_InvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".siteaudit.yaml")
	if err := os.WriteFile(path, []byte("validate:\n  policy: lenient\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid policy")
	}
	var domainErr domain.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != domain.ErrCodeConfigError {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestConfigValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown category", func(c *Config) { c.Validation.Required = []string{"security"} }},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"xml"} }},
		{"negative jobs", func(c *Config) { c.Normalize.Jobs = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "siteaudit.yaml")

	original := DefaultConfig()
	original.Normalize.Jobs = 3
	original.Output.Formats = []string{"markdown", "html"}

	if err := SaveConfig(original, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Normalize.Jobs != 3 {
		t.Errorf("jobs = %d, want 3", loaded.Normalize.Jobs)
	}
	if len(loaded.Output.Formats) != 2 || loaded.Output.Formats[0] != "markdown" {
		t.Errorf("unexpected formats: %v", loaded.Output.Formats)
	}
}
