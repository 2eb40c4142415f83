// Package main provides tests for the AppShell CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/appshell/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	err := cmd.Execute()
	if err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "AppShell") {
		t.Errorf("version output should contain 'AppShell', got: %s", output)
	}
}

func TestHelpListsCommands(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help error = %v", err)
	}

	output := buf.String()
	for _, name := range []string{"serve", "routes", "config", "version"} {
		if !strings.Contains(output, name) {
			t.Errorf("help output should list %q, got: %s", name, output)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"frobnicate"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for an unknown command")
	}
}
