package combine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"geocss/config"
	"geocss/state"
)

const scenarios = "../fixture/testdata/scenarios.yaml"

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Cfg = cfg
	env.Setup()
	return ctx, env
}

func runCommand(ctx context.Context, action cli.ActionFunc, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := &cli.Command{
		Name:   "test",
		Writer: &out,
		Action: action,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "or"},
			&cli.BoolFlag{Name: "tree"},
			&cli.BoolFlag{Name: "default"},
			&cli.StringFlag{Name: "force-zip-cp"},
		},
	}
	err := cmd.Run(ctx, append([]string{"test"}, args...))
	return out.String(), err
}

func TestRun(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	out, err := runCommand(ctx, Run, scenarios)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d result lines, want 6:\n%s", len(lines), out)
	}
	for _, want := range []string{
		"scale ranges intersect\t[@scale >= 500][@scale < 1000]\t(specificity 0,1,0)",
		"disjunction absorbed by its member\troads\t(specificity 0,0,1)",
		"never absorbs\tnever\t(specificity 0,0,0)",
	} {
		if !strings.Contains(out, want+"\n") {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Tree(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	out, err := runCommand(ctx, Run, "--tree", scenarios)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "disjunction absorbed by its member:\ntype roads (specificity 0,0,1)\n") {
		t.Errorf("unexpected tree output:\n%s", out)
	}
}

func TestRun_Disjoin(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Combiner.Verify = false

	src := filepath.Join(t.TempDir(), "or.yaml")
	if err := os.WriteFile(src, []byte("name: either\nselectors: [{type: roads}, {type: rivers}, {type: roads}]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCommand(ctx, Run, "--or", src)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != "either\trivers, roads\t(specificity 0,0,1)\n" {
		t.Errorf("Run(--or) = %q", out)
	}
}

func TestRun_Mismatch(t *testing.T) {
	ctx, env := setupTestEnv(t)

	src := filepath.Join(t.TempDir(), "wrong.yaml")
	if err := os.WriteFile(src, []byte("name: wrong\nselectors: [{type: roads}]\nexpect: rivers\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := runCommand(ctx, Run, src)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("Run() error = %v, want mismatch", err)
	}

	env.Cfg.Combiner.Verify = false
	if _, err := runCommand(ctx, Run, src); err != nil {
		t.Errorf("Run() without verification error = %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	if _, err := runCommand(ctx, Run); err == nil {
		t.Error("expected error without sources")
	}
	if _, err := runCommand(ctx, Run, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing source")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := runCommand(cancelled, Run, scenarios); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() on cancelled context error = %v", err)
	}
}

func TestScales(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	out, err := runCommand(ctx, Scales, scenarios)
	if err != nil {
		t.Fatalf("Scales() error = %v", err)
	}
	for _, want := range []string{
		"primary roads at city scales: [@scale < 25000]\n",
		"scale ranges intersect: [@scale >= 500][@scale < 1000]\n",
		"never absorbs: none\n",
		"data merged: [@scale >= 0]\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScales_Unsatisfiable(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	src := filepath.Join(t.TempDir(), "inverted.yaml")
	const stream = `name: inverted
selectors: [{type: roads}, {scale: [500, 100]}]
---
name: contradictory
selectors: [{type: roads}, {data: "lanes > 5 and lanes < 3"}]
`
	if err := os.WriteFile(src, []byte(stream), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCommand(ctx, Scales, src)
	if err != nil {
		t.Fatalf("Scales() error = %v", err)
	}
	if out != "inverted: none\ncontradictory: none\n" {
		t.Errorf("Scales() = %q", out)
	}
}

func TestRun_Report(t *testing.T) {
	ctx, env := setupTestEnv(t)

	conf := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	if _, err := runCommand(ctx, Run, scenarios); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if fi, err := os.Stat(conf.Destination); err != nil || fi.Size() == 0 {
		t.Errorf("report not written: %v", err)
	}
}

func TestOutputConfiguration(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	out, err := runCommand(ctx, OutputConfiguration)
	if err != nil {
		t.Fatalf("OutputConfiguration() error = %v", err)
	}
	if !strings.Contains(out, "combiner:") {
		t.Errorf("actual configuration missing combiner section:\n%s", out)
	}

	dst := filepath.Join(t.TempDir(), "default.yaml")
	if _, err := runCommand(ctx, OutputConfiguration, "--default", dst); err != nil {
		t.Fatalf("OutputConfiguration(--default) error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read default configuration: %v", err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Errorf("default configuration:\n%s", data)
	}
}

func TestRun_CodePage(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	// unknown character set is reported and ignored
	for _, cp := range []string{"cp866", "no-such-charset"} {
		if _, err := runCommand(ctx, Run, "--force-zip-cp", cp, scenarios); err != nil {
			t.Errorf("Run(--force-zip-cp %s) error = %v", cp, err)
		}
	}
}
