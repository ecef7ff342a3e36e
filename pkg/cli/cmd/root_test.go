package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/storekeep/storekeep/pkg/cli/cmd"
)

func TestNewRootCmdVersionFormatting(t *testing.T) {
	t.Parallel()

	version := "1.2.3"
	commit := "abc123"
	date := "2026-08-17"
	root := cmd.NewRootCmd(version, commit, date)

	expectedVersion := version + " (Built on " + date + " from Git SHA " + commit + ")"
	if root.Version != expectedVersion {
		t.Fatalf("unexpected version string. want %q, got %q", expectedVersion, root.Version)
	}
}

func TestExecuteShowsHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("", "", "")
	root.SetOut(&out)

	_ = root.Execute()

	help := out.String()
	if !strings.Contains(help, "storekeep") {
		t.Fatalf("help output missing command name: %q", help)
	}

	if !strings.Contains(help, "serve") {
		t.Fatalf("help output missing serve subcommand: %q", help)
	}
}

func TestExecuteShowsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("1.2.3", "abc123", "2026-08-17")
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	err := root.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "1.2.3 (Built on 2026-08-17 from Git SHA abc123)") {
		t.Fatalf("unexpected version output: %q", out.String())
	}
}

func TestExecuteWrapsCommandError(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("", "", "")
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"no-such-command"})

	err := cmd.Execute(root)
	if err == nil {
		t.Fatal("expected an error for an unknown subcommand")
	}

	if !strings.Contains(err.Error(), "command execution failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}
