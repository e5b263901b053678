// Package config provides configuration file support for custodia.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all tunables. Values come from defaults, then
// .custodia/config.yaml, then CUSTODIA_* environment overrides.
type Config struct {
	ManifestPath  string          `yaml:"manifest_path" env:"CUSTODIA_MANIFEST"`
	QuarantineDir string          `yaml:"quarantine_dir" env:"CUSTODIA_QUARANTINE_DIR"`
	ParsedDir     string          `yaml:"parsed_dir" env:"CUSTODIA_PARSED_DIR"`
	AuditLogPath  string          `yaml:"audit_log" env:"CUSTODIA_AUDIT_LOG"`
	PII           PIIConfig       `yaml:"pii"`
	Thresholds    ThresholdConfig `yaml:"thresholds"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// PIIConfig configures the risk classifier.
type PIIConfig struct {
	// MediumThreshold is the number of MEDIUM-confidence matches that
	// triggers quarantine.
	MediumThreshold int `yaml:"medium_threshold" env:"CUSTODIA_PII_MEDIUM_THRESHOLD"`
}

// ThresholdConfig configures the citation-density thresholds per mode.
type ThresholdConfig struct {
	Research   float64 `yaml:"research" env:"CUSTODIA_THRESHOLD_RESEARCH"`
	Compliance float64 `yaml:"compliance" env:"CUSTODIA_THRESHOLD_COMPLIANCE"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"CUSTODIA_LOG_LEVEL"`
	Format string `yaml:"format" env:"CUSTODIA_LOG_FORMAT"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ManifestPath:  filepath.Join("data", "manifest.json"),
		QuarantineDir: filepath.Join("data", "quarantine"),
		ParsedDir:     filepath.Join("data", "parsed"),
		AuditLogPath:  filepath.Join("data", "audit_log.csv"),
		PII: PIIConfig{
			MediumThreshold: 3,
		},
		Thresholds: ThresholdConfig{
			Research:   0.70,
			Compliance: 1.00,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads .custodia/config.yaml under root and applies environment
// overrides. A missing config file is fine; defaults apply.
func Load(root string) (*Config, error) {
	cfg := Default()
	cfgPath := filepath.Join(root, ".custodia", "config.yaml")

	data, err := os.ReadFile(cfgPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	return cfg, nil
}

// Save writes configuration to .custodia/config.yaml under root.
func Save(root string, cfg *Config) error {
	cfgPath := filepath.Join(root, ".custodia", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
