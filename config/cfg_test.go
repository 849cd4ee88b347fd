package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Combiner.Trace {
		t.Error("Trace should be off by default")
	}
	if cfg.Combiner.Format != OutputFormatText {
		t.Errorf("Format = %s, want text", cfg.Combiner.Format)
	}
	if !cfg.Combiner.Verify {
		t.Error("Verify should be on by default")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" || cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `version: 1
combiner:
  trace: true
  format: tree
  verify: false
logging:
  console:
    level: debug
  file:
    level: debug
    destination: `+filepath.Join(dir, "logs", "test.log")+`
    mode: append
reporting:
  destination: `+filepath.Join(dir, "test-report.zip")+`
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !cfg.Combiner.Trace || cfg.Combiner.Verify {
		t.Errorf("combiner = %+v", cfg.Combiner)
	}
	if cfg.Combiner.Format != OutputFormatTree {
		t.Errorf("Format = %s, want tree", cfg.Combiner.Format)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
	// sanitizer makes sure log directory exists
	if _, err := os.Stat(filepath.Join(dir, "logs")); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	cfg, err := LoadConfiguration(writeConfig(t, "version: 1\ncombiner:\n  trace: true\n"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if !cfg.Combiner.Trace {
		t.Error("Trace from file was not applied")
	}
	// untouched values keep defaults
	if !cfg.Combiner.Verify || cfg.Reporting.Destination == "" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ncombiner:\n  trace: true\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"invalid version", "version: 2\n"},
		{"invalid format", "version: 1\ncombiner:\n  format: html\n"},
		{"invalid log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfiguration(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}
	if _, err := LoadConfiguration("", option); err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if !strings.Contains(string(data), "combiner:") {
		t.Errorf("Prepare() returned unexpected template:\n%s", data)
	}
	var cfg Config
	if err = decodeStrict(data, &cfg); err != nil {
		t.Fatalf("Prepared config cannot be decoded: %v", err)
	}
	if err = check(&cfg); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version:  1,
		Combiner: CombinerConfig{Trace: true, Format: OutputFormatTree},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "format: tree") {
		t.Errorf("format is not dumped as text:\n%s", data)
	}

	cfg2 := &Config{}
	if err := decodeStrict(data, cfg2); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Combiner != cfg.Combiner {
		t.Errorf("combiner mismatch after dump/load: got %+v, want %+v", cfg2.Combiner, cfg.Combiner)
	}
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{OutputFormatText, "text"},
		{OutputFormatTree, "tree"},
		{OutputFormat(99), "OutputFormat(99)"},
	}
	for _, tt := range tests {
		if got := tt.format.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if _, err := ParseOutputFormat("html"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"roads", "roads"},
		{"testdata/a.yaml[0]", "testdata_a.yaml[0]"},
		{"..hidden", "hidden"},
		{"", "_unnamed_"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
