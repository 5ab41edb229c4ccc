package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Version(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "rctf version") {
		t.Errorf("--version output = %q", out.String())
	}
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--log-level", "loud"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() with an invalid log level should fail")
	}
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", "/nonexistent/rctf.yaml"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() with a missing config file should fail")
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() with positional arguments should fail")
	}
}

func TestRootCmd_DataDirNotCreatable(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	// A regular file where the data directory should go
	if err := os.WriteFile(filepath.Join(xdg, "rctf"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "rctf.yaml")
	if err := os.WriteFile(cfgPath, []byte("prompt: rctf\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", cfgPath})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("Execute() should fail when the data directory cannot be created")
	}
	if !strings.HasPrefix(err.Error(), "create data directory: ") {
		t.Errorf("Execute() error = %q, want it prefixed with the failing step", err)
	}
}
