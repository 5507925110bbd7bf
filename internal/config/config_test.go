package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir swaps into a temp dir so repo-local config lookup is hermetic.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GITHUB_REPOSITORY", "SCANRELAY_PR", "SCANRELAY_FORMAT", "SCANRELAY_FAIL_ON"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if cfg.FailOn != "none" {
		t.Errorf("FailOn = %q, want none", cfg.FailOn)
	}
	if !cfg.Privacy.RedactSecretsEnabled() {
		t.Error("RedactSecrets should default to true")
	}
}

func TestLoadNoFile(t *testing.T) {
	chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Format != "text" || cfg.FailOn != "none" {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadMergesLocalFile(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	content := []byte(`
repository: acme/widgets
pullRequest: 42
format: markdown
reports:
  flake8: reports/flake8.txt
  checkov: reports/checkov.json
  checkovPlan: reports/plan.json
`)
	if err := os.WriteFile(filepath.Join(dir, localFile), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Repository != "acme/widgets" || cfg.PullRequest != 42 {
		t.Errorf("file values not merged: %+v", cfg)
	}
	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, want markdown", cfg.Format)
	}
	if cfg.FailOn != "none" {
		t.Errorf("unset file key should keep default, got %q", cfg.FailOn)
	}
	if cfg.Reports.CheckovPlan != "reports/plan.json" {
		t.Errorf("Reports not merged: %+v", cfg.Reports)
	}
}

func TestLoadFileDisablesRedaction(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	content := []byte("privacy:\n  redactSecrets: false\n")
	if err := os.WriteFile(filepath.Join(dir, localFile), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Privacy.RedactSecretsEnabled() {
		t.Error("redactSecrets: false in the config file should disable redaction")
	}

	// A file that never mentions the key keeps the default.
	if err := os.WriteFile(filepath.Join(dir, localFile), []byte("format: json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Privacy.RedactSecretsEnabled() {
		t.Error("unset redactSecrets should keep the default of true")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := os.WriteFile(filepath.Join(dir, localFile),
		[]byte("repository: from/file\npullRequest: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GITHUB_REPOSITORY", "from/env")
	t.Setenv("SCANRELAY_PR", "7")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repository != "from/env" || cfg.PullRequest != 7 {
		t.Errorf("env should override file, got %+v", cfg)
	}
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	chdir(t)
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_REPOSITORY", "from/env")

	cfg, err := Load(map[string]string{"repo": "from/flag", "pr": "99", "failOn": "HIGH"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Repository != "from/flag" || cfg.PullRequest != 99 || cfg.FailOn != "HIGH" {
		t.Errorf("flag should win, got %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)

	if err := os.WriteFile(filepath.Join(dir, localFile), []byte("{{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(nil); err == nil {
		t.Error("malformed config file should fail loading")
	}
}

func TestSetGetField(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "reports.bandit", "out/bandit.json"); err != nil {
		t.Fatal(err)
	}
	got, err := GetField(cfg, "reports.bandit")
	if err != nil || got != "out/bandit.json" {
		t.Errorf("GetField = %q, %v", got, err)
	}
	if err := SetField(&cfg, "pullRequest", "abc"); err == nil {
		t.Error("non-integer pullRequest should fail")
	}
	if err := SetField(&cfg, "bogus", "x"); err == nil {
		t.Error("unknown key should fail")
	}
}
