package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the mrlens configuration.
type Config struct {
	GitLabURL     string        `json:"gitlabUrl"`
	Provider      string        `json:"provider"`
	Model         string        `json:"model"`
	Format        string        `json:"format"`
	Depth         string        `json:"depth"`
	Focus         string        `json:"focus"`
	MaxFiles      int           `json:"maxFiles"`
	BatchSize     int           `json:"batchSize"`
	MaxFileBytes  int64         `json:"maxFileBytes"`
	IncludeConfig bool          `json:"includeConfig"`
	IncludeDocs   bool          `json:"includeDocs"`
	ExcludePaths  []string      `json:"excludePaths,omitempty"`
	MaxDiffBytes  int           `json:"maxDiffBytes"`
	RulesFile     string        `json:"rulesFile,omitempty"`
	Cache         CacheConfig   `json:"cache"`
	Privacy       PrivacyConfig `json:"privacy"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls privacy/redaction behavior.
type PrivacyConfig struct {
	RedactSecrets bool     `json:"redactSecrets"`
	RedactPaths   []string `json:"redactPaths,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		GitLabURL:    "https://gitlab.com",
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-20250514",
		Format:       "text",
		Depth:        "standard",
		Focus:        "comprehensive",
		MaxFiles:     20,
		BatchSize:    10,
		MaxFileBytes: 100_000,
		MaxDiffBytes: 8000,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
			RedactPaths:   []string{"**/.env", "**/*secrets*"},
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for mrlens.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mrlens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "mrlens"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mrlens"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "mrlens"), nil
	default:
		return filepath.Join(home, ".config", "mrlens"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
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
	if err := json.Unmarshal(data, &cfg); err != nil {
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
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
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
	if src.GitLabURL != "" {
		dst.GitLabURL = src.GitLabURL
	}
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Depth != "" {
		dst.Depth = src.Depth
	}
	if src.Focus != "" {
		dst.Focus = src.Focus
	}
	if src.MaxFiles > 0 {
		dst.MaxFiles = src.MaxFiles
	}
	if src.BatchSize > 0 {
		dst.BatchSize = src.BatchSize
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if len(src.ExcludePaths) > 0 {
		dst.ExcludePaths = src.ExcludePaths
	}
	if src.MaxDiffBytes > 0 {
		dst.MaxDiffBytes = src.MaxDiffBytes
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// Bool fields from file: JSON's zero value for bool is false, so a simple
	// merge cannot distinguish unset from false. An explicit true survives.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.IncludeConfig = src.IncludeConfig || dst.IncludeConfig
	dst.IncludeDocs = src.IncludeDocs || dst.IncludeDocs
	if len(src.Privacy.RedactPaths) > 0 {
		dst.Privacy.RedactPaths = src.Privacy.RedactPaths
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("MRLENS_GITLAB_URL"); v != "" {
		cfg.GitLabURL = v
	}
	if v := os.Getenv("MRLENS_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("MRLENS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("MRLENS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("MRLENS_DEPTH"); v != "" {
		cfg.Depth = v
	}
	if v := os.Getenv("MRLENS_FOCUS"); v != "" {
		cfg.Focus = v
	}
	if v := os.Getenv("MRLENS_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v := os.Getenv("MRLENS_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["gitlabUrl"]; ok && v != "" {
		cfg.GitLabURL = v
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["depth"]; ok && v != "" {
		cfg.Depth = v
	}
	if v, ok := overrides["focus"]; ok && v != "" {
		cfg.Focus = v
	}
	if v, ok := overrides["maxFiles"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v, ok := overrides["batchSize"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}
	if v, ok := overrides["maxDiffBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffBytes = n
		}
	}
	if v, ok := overrides["rulesFile"]; ok && v != "" {
		cfg.RulesFile = v
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "gitlabUrl":
		cfg.GitLabURL = value
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "depth":
		cfg.Depth = value
	case "focus":
		cfg.Focus = value
	case "maxFiles":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFiles must be an integer: %w", err)
		}
		cfg.MaxFiles = n
	case "batchSize":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("batchSize must be an integer: %w", err)
		}
		cfg.BatchSize = n
	case "maxDiffBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxDiffBytes must be an integer: %w", err)
		}
		cfg.MaxDiffBytes = n
	case "rulesFile":
		cfg.RulesFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
