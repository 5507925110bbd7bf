package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// localFile is the repo-local config file name, preferred over the user-wide
// one when present.
const localFile = ".scanrelay.yaml"

// Config represents the scanrelay configuration.
type Config struct {
	Repository  string        `yaml:"repository,omitempty"` // "owner/name"
	PullRequest int           `yaml:"pullRequest,omitempty"`
	Format      string        `yaml:"format,omitempty"`
	FailOn      string        `yaml:"failOn,omitempty"`
	Reports     ReportsConfig `yaml:"reports,omitempty"`
	Privacy     PrivacyConfig `yaml:"privacy,omitempty"`
}

// ReportsConfig holds the path of each scanner's report artifact. An empty
// path means the tool did not run and contributes no findings.
type ReportsConfig struct {
	Flake8      string `yaml:"flake8,omitempty"`
	Bandit      string `yaml:"bandit,omitempty"`
	Trivy       string `yaml:"trivy,omitempty"`
	Hadolint    string `yaml:"hadolint,omitempty"`
	Checkov     string `yaml:"checkov,omitempty"`
	CheckovPlan string `yaml:"checkovPlan,omitempty"`
}

// PrivacyConfig controls secret redaction in posted comment bodies.
type PrivacyConfig struct {
	// RedactSecrets is a pointer so the merge chain can tell an explicit
	// false in the config file apart from an unset field.
	RedactSecrets *bool    `yaml:"redactSecrets,omitempty"`
	RedactPaths   []string `yaml:"redactPaths,omitempty"`
}

// RedactSecretsEnabled reports whether secret redaction is on. Unset means on.
func (p PrivacyConfig) RedactSecretsEnabled() bool {
	return p.RedactSecrets == nil || *p.RedactSecrets
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format: "text",
		FailOn: "none",
		Privacy: PrivacyConfig{
			RedactSecrets: boolPtr(true),
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

// ConfigDir returns the platform-appropriate config directory for scanrelay.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "scanrelay"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "scanrelay"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "scanrelay"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "scanrelay"), nil
	default:
		return filepath.Join(home, ".config", "scanrelay"), nil
	}
}

// ConfigPath returns the path of the config file to read: the repo-local
// .scanrelay.yaml when present, otherwise the user-wide file.
func ConfigPath() (string, error) {
	if _, err := os.Stat(localFile); err == nil {
		return localFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Repository != "" {
		dst.Repository = src.Repository
	}
	if src.PullRequest > 0 {
		dst.PullRequest = src.PullRequest
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.FailOn != "" {
		dst.FailOn = src.FailOn
	}
	if src.Reports.Flake8 != "" {
		dst.Reports.Flake8 = src.Reports.Flake8
	}
	if src.Reports.Bandit != "" {
		dst.Reports.Bandit = src.Reports.Bandit
	}
	if src.Reports.Trivy != "" {
		dst.Reports.Trivy = src.Reports.Trivy
	}
	if src.Reports.Hadolint != "" {
		dst.Reports.Hadolint = src.Reports.Hadolint
	}
	if src.Reports.Checkov != "" {
		dst.Reports.Checkov = src.Reports.Checkov
	}
	if src.Reports.CheckovPlan != "" {
		dst.Reports.CheckovPlan = src.Reports.CheckovPlan
	}
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
	if src.Privacy.RedactSecrets != nil {
		dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("GITHUB_REPOSITORY"); v != "" {
		cfg.Repository = v
	}
	if v := os.Getenv("SCANRELAY_PR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PullRequest = n
		}
	}
	if v := os.Getenv("SCANRELAY_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SCANRELAY_FAIL_ON"); v != "" {
		cfg.FailOn = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["repo"]; ok && v != "" {
		cfg.Repository = v
	}
	if v, ok := overrides["pr"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PullRequest = n
		}
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["failOn"]; ok && v != "" {
		cfg.FailOn = v
	}
	for key, field := range map[string]*string{
		"flake8":      &cfg.Reports.Flake8,
		"bandit":      &cfg.Reports.Bandit,
		"trivy":       &cfg.Reports.Trivy,
		"hadolint":    &cfg.Reports.Hadolint,
		"checkov":     &cfg.Reports.Checkov,
		"checkovPlan": &cfg.Reports.CheckovPlan,
	} {
		if v, ok := overrides[key]; ok && v != "" {
			*field = v
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "repository":
		cfg.Repository = value
	case "pullRequest":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("pullRequest must be an integer: %w", err)
		}
		cfg.PullRequest = n
	case "format":
		cfg.Format = value
	case "failOn":
		cfg.FailOn = value
	case "reports.flake8":
		cfg.Reports.Flake8 = value
	case "reports.bandit":
		cfg.Reports.Bandit = value
	case "reports.trivy":
		cfg.Reports.Trivy = value
	case "reports.hadolint":
		cfg.Reports.Hadolint = value
	case "reports.checkov":
		cfg.Reports.Checkov = value
	case "reports.checkovPlan":
		cfg.Reports.CheckovPlan = value
	case "privacy.redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("privacy.redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = boolPtr(b)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// GetField returns a single config field's current value by key name.
func GetField(cfg Config, key string) (string, error) {
	switch key {
	case "repository":
		return cfg.Repository, nil
	case "pullRequest":
		return strconv.Itoa(cfg.PullRequest), nil
	case "format":
		return cfg.Format, nil
	case "failOn":
		return cfg.FailOn, nil
	case "reports.flake8":
		return cfg.Reports.Flake8, nil
	case "reports.bandit":
		return cfg.Reports.Bandit, nil
	case "reports.trivy":
		return cfg.Reports.Trivy, nil
	case "reports.hadolint":
		return cfg.Reports.Hadolint, nil
	case "reports.checkov":
		return cfg.Reports.Checkov, nil
	case "reports.checkovPlan":
		return cfg.Reports.CheckovPlan, nil
	case "privacy.redactSecrets":
		return strconv.FormatBool(cfg.Privacy.RedactSecretsEnabled()), nil
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}
}
