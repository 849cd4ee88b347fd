package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	// CombinerConfig controls how documents are combined and reported.
	CombinerConfig struct {
		Trace  bool         `yaml:"trace"`
		Format OutputFormat `yaml:"format" validate:"gte=0"`
		Verify bool         `yaml:"verify"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Combiner  CombinerConfig `yaml:"combiner"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// decodeStrict puts values from data on top of cfg, keys cfg does not
// declare are errors.
func decodeStrict(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return nil
}

func check(cfg *Config) error {
	if err := gencfg.Sanitize(cfg); err != nil {
		return err
	}
	return gencfg.Validate(cfg)
}

// LoadConfiguration expands configuration template to get defaults and, when
// path is not empty, puts values from the file on top of them. Result is
// sanitized and validated once all layers are in.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	defaults, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg := &Config{}
	if err := decodeStrict(defaults, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := check(cfg); err != nil {
		return nil, fmt.Errorf("configuration is not valid: %w", err)
	}
	return cfg, nil
}

// Prepare returns expanded configuration template.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl)
}

// Dump renders cfg as YAML, the result can be loaded back as configuration
// file.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
