package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/ginfactory/internal/config"
)

func TestCommandLineOverrides(t *testing.T) {
	cli := newCommandLine()
	command, err := cli.app.Parse([]string{
		"--output", "/tmp/out",
		"--digits", "4",
		"generate",
		"--first-index", "5",
		"--set", "b=2",
		"--vary", "c=10,20",
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if command != cli.generate.FullCommand() {
		t.Fatalf("expected generate command, got %q", command)
	}

	o := cli.overrides()
	if o.Digits == nil || *o.Digits != 4 {
		t.Fatalf("expected digits override 4, got %v", o.Digits)
	}
	if o.Stride != nil {
		t.Fatalf("expected stride to stay unset")
	}
	if o.FirstIndex == nil || *o.FirstIndex != 5 {
		t.Fatalf("expected first index override 5, got %v", o.FirstIndex)
	}
	if diff := cmp.Diff([]string{"b=2"}, o.Set); diff != "" {
		t.Fatalf("unexpected --set values (-want +got):\n%s", diff)
	}
}

func TestCommandLineDefaultsToGenerate(t *testing.T) {
	cli := newCommandLine()
	command, err := cli.app.Parse([]string{"--output", "/tmp/out"})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if command != cli.generate.FullCommand() {
		t.Fatalf("expected default generate command, got %q", command)
	}
	if o := cli.overrides(); o.FirstIndex != nil {
		t.Fatalf("expected first index to stay unset")
	}
}

func TestRunGenerate(t *testing.T) {
	for _, key := range []string{"GINFACTORY_SCHEME", "GINFACTORY_DIGITS", "GINFACTORY_STRIDE", "GINFACTORY_OUTPUT_DIR", "GINFACTORY_TEMPLATE", "GINFACTORY_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	template := filepath.Join(dir, "base.gin")
	if err := os.WriteFile(template, []byte("a=1\n"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	out := filepath.Join(dir, "out")

	cli := newCommandLine()
	command, err := cli.app.Parse([]string{
		"--output", out,
		"--template", template,
		"generate",
		"--first-index", "5",
		"--set", "b=2",
		"--vary", "c=10,20",
	})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	cfg, err := config.Load(cli.overrides())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := run(command, cli, cfg, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	for name, want := range map[string]string{
		"005.gin": "a=1\nb=2\nc=10\n",
		"006.gin": "a=1\nb=2\nc=20\n",
	} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if string(data) != want {
			t.Fatalf("unexpected %s content: %q", name, data)
		}
	}
}

func TestRunSweepWithoutValidation(t *testing.T) {
	cli := newCommandLine()
	command, err := cli.app.Parse([]string{"sweep"})
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	cfg := config.Config{Scheme: "numerical", Digits: 3, Stride: 1, OutputDir: t.TempDir()}
	if err := run(command, cli, cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for plan without validation section")
	}
}
