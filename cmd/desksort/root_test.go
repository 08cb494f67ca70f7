package main

import (
	"strings"
	"testing"
)

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	want := []string{"about", "apps", "categories", "classify", "completion", "env", "open", "reset", "save", "scan", "serve", "status"}
	have := map[string]bool{}
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing command %q", name)
		}
	}
	for _, flag := range []string{"config", "log-level", "log-file", "remote"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing global flag --%s", flag)
		}
	}
}

func TestVersionAndAbout(t *testing.T) {
	out, err := executeCommand(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(out, "desksort ") {
		t.Fatalf("unexpected version output: %q", out)
	}

	out, err = executeCommand(t, "about")
	if err != nil || !strings.Contains(out, "github.com/oukeidos/desksort") {
		t.Fatalf("about: out=%q err=%v", out, err)
	}
}

func TestUnknownArgs(t *testing.T) {
	if _, err := executeCommand(t, "bogus"); err == nil {
		t.Fatal("expected error for an unknown command")
	}
	if _, err := executeCommand(t, "scan", "extra"); err == nil {
		t.Fatal("expected error for extra arguments")
	}
}

func TestHelpUsesTemplates(t *testing.T) {
	out, err := executeCommand(t, "--help")
	if err != nil {
		t.Fatalf("--help: %v", err)
	}
	for _, want := range []string{"desksort [command] [flags]", "scan", "--remote"} {
		if !strings.Contains(out, want) {
			t.Errorf("root help missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(t, "env", "--help")
	if err != nil {
		t.Fatalf("env --help: %v", err)
	}
	if !strings.Contains(out, "desksort env [command]") || !strings.Contains(out, "setup") {
		t.Fatalf("env help:\n%s", out)
	}
}
