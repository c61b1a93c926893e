package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, out)
	}
	requireContains(t, out, "Wrote sample configuration")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatalf("sample config missing paths section:\n%s", data)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestTaskLifecycleViaCLI(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, []string{"login", "admin", "-p", "admin"}, "")
	if err != nil {
		t.Fatalf("login: %v\n%s", err, out)
	}
	requireContains(t, out, "Logged in as admin")

	out, err = runCLI(t, []string{"add", "Buy", "milk"}, "")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}
	requireContains(t, out, "Buy milk")

	// "Added <id>: Buy milk"
	fields := strings.Fields(out)
	if len(fields) < 2 {
		t.Fatalf("unexpected add output: %s", out)
	}
	id := strings.TrimSuffix(fields[1], ":")

	out, err = runCLI(t, []string{"list"}, "")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	requireContains(t, out, "Buy milk")
	requireContains(t, out, "First Task")

	out, err = runCLI(t, []string{"toggle", id}, "")
	if err != nil {
		t.Fatalf("toggle: %v\n%s", err, out)
	}
	requireContains(t, out, "now done")

	out, err = runCLI(t, []string{"list"}, "")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if strings.Contains(out, "Buy milk") {
		t.Fatalf("default list must hide checked tasks:\n%s", out)
	}

	out, err = runCLI(t, []string{"list", "--all"}, "")
	if err != nil {
		t.Fatalf("list --all: %v\n%s", err, out)
	}
	requireContains(t, out, "Buy milk")

	out, err = runCLI(t, []string{"rm", id}, "")
	if err != nil {
		t.Fatalf("rm: %v\n%s", err, out)
	}
	requireContains(t, out, "Deleted")

	if out, err := runCLI(t, []string{"rm", id}, ""); err == nil {
		t.Fatalf("expected repeat delete to fail:\n%s", out)
	}

	out, err = runCLI(t, []string{"logout"}, "")
	if err != nil {
		t.Fatalf("logout: %v\n%s", err, out)
	}
	requireContains(t, out, "Logged out")

	if _, err := runCLI(t, []string{"list"}, ""); err == nil {
		t.Fatal("expected list to fail after logout")
	}
}

func TestLoginPromptsForPassword(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, []string{"login", "admin"}, "admin\n")
	if err != nil {
		t.Fatalf("login with prompted password: %v\n%s", err, out)
	}
	requireContains(t, out, "Logged in as admin")
}

func TestDaemonStatusAndStopOverSocket(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, []string{"daemon", "status"}, "")
	if err != nil {
		t.Fatalf("daemon status: %v\n%s", err, out)
	}
	requireContains(t, out, "Running:         yes")
	requireContains(t, out, env.cfg.DatabasePath())

	out, err = runCLI(t, []string{"daemon", "stop"}, "")
	if err != nil {
		t.Fatalf("daemon stop: %v\n%s", err, out)
	}
	requireContains(t, out, "Daemon stopped")
}

func TestStatusCommandWithoutLogin(t *testing.T) {
	setupCLITestEnv(t)

	out, err := runCLI(t, []string{"status"}, "")
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Running:         yes")
}
