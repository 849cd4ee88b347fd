package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggingConfig_Prepare(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger: LoggerConfig{
			Level:       "normal",
			Destination: filepath.Join(dir, "geocss.log"),
			Mode:        "overwrite",
		},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("hidden message")
	log.Info("visible message")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "visible message") || strings.Contains(string(data), "hidden message") {
		t.Errorf("unexpected log content:\n%s", data)
	}
	if !strings.Contains(string(data), "geocss") {
		t.Errorf("logger is not named:\n%s", data)
	}
}

func TestLoggingConfig_PrepareWithReport(t *testing.T) {
	dir := t.TempDir()
	conf := LoggingConfig{
		ConsoleLogger: LoggerConfig{Level: "none"},
		FileLogger: LoggerConfig{
			Level:       "none",
			Destination: filepath.Join(dir, "geocss.log"),
		},
	}
	rpt := &Report{entries: make(map[string]entry)}

	log, err := conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	// report forces debug file log
	log.Debug("debug message")
	_ = log.Sync()

	data, err := os.ReadFile(conf.FileLogger.Destination)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "debug message") {
		t.Errorf("debug message missing:\n%s", data)
	}
	if _, ok := rpt.entries["final.log"]; !ok {
		t.Error("log file is not stored in report")
	}
	if _, ok := rpt.entries["panic.log"]; !ok {
		t.Error("panic log is not stored in report")
	}
}
