// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/krishiuday/kisan-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete application configuration.
type Config struct {
	Version string `toml:"version"`

	// AI configuration (advisory and chat generation)
	AI AIConfig `toml:"ai"`

	// Identity configuration (phone login)
	Identity IdentityConfig `toml:"identity"`

	// Connectivity configuration
	Connectivity ConnectivityConfig `toml:"connectivity"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// AIConfig contains generative API configuration.
type AIConfig struct {
	// GeminiKey is the generative API key. Usually supplied via the
	// GEMINI_API_KEY environment variable rather than the file.
	GeminiKey string `toml:"gemini_key"`
	// Model overrides the default generation model.
	Model string `toml:"model"`
	// Language is the default advisory output language display name.
	Language string `toml:"language"`
}

// IdentityConfig contains phone-verification configuration.
type IdentityConfig struct {
	// Provider selects the verification backend: "rest" or "local".
	// "local" issues codes on this machine and is meant for development.
	Provider string `toml:"provider"`
	// APIKey is the verification service API key (rest provider only).
	APIKey string `toml:"api_key"`
}

// ConnectivityConfig contains reachability probe configuration.
type ConnectivityConfig struct {
	// ProbeURL is the endpoint used for reachability checks.
	ProbeURL string `toml:"probe_url"`
	// ProbeIntervalSecs is the seconds between background probes.
	ProbeIntervalSecs int `toml:"probe_interval_secs"`
}

// StorageConfig contains local persistence configuration.
type StorageConfig struct {
	// Path is the database file path (empty = ~/.kisan/kisan.db).
	Path string `toml:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		AI: AIConfig{
			GeminiKey: "",
			Model:     "gemini-2.5-flash",
			Language:  "English",
		},

		Identity: IdentityConfig{
			Provider: "local",
			APIKey:   "",
		},

		Connectivity: ConnectivityConfig{
			ProbeURL:          "https://clients3.google.com/generate_204",
			ProbeIntervalSecs: 15,
		},

		Storage: StorageConfig{
			Path: "",
		},

		UI: UIConfig{
			Theme:       "auto",
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the application configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".kisan"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect
// API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// A .env file is consulted first, then environment overrides are applied
// last so they win over the file.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env files without overriding existing variables.
// Missing files are fine.
func loadDotEnv() {
	godotenv.Load()
	if dir, err := ConfigDir(); err == nil {
		godotenv.Load(filepath.Join(dir, ".env"))
	}
}

// loadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiKey = v
	}
	if v := os.Getenv("KISAN_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("KISAN_LANGUAGE"); v != "" {
		c.AI.Language = v
	}
	if v := os.Getenv("KISAN_IDENTITY_PROVIDER"); v != "" {
		c.Identity.Provider = v
	}
	if v := os.Getenv("KISAN_IDENTITY_KEY"); v != "" {
		c.Identity.APIKey = v
	}
	if v := os.Getenv("KISAN_PROBE_URL"); v != "" {
		c.Connectivity.ProbeURL = v
	}
	if v := os.Getenv("KISAN_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("KISAN_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.AI.Model == "" {
		c.AI.Model = defaults.AI.Model
	}
	if c.AI.Language == "" {
		c.AI.Language = defaults.AI.Language
	}
	if c.Identity.Provider == "" {
		c.Identity.Provider = defaults.Identity.Provider
	}
	if c.Connectivity.ProbeURL == "" {
		c.Connectivity.ProbeURL = defaults.Connectivity.ProbeURL
	}
	if c.Connectivity.ProbeIntervalSecs <= 0 {
		c.Connectivity.ProbeIntervalSecs = defaults.Connectivity.ProbeIntervalSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validProviders := map[string]bool{"local": true, "rest": true}
	if !validProviders[strings.ToLower(c.Identity.Provider)] {
		return ValidationError{
			Field:   "identity.provider",
			Message: fmt.Sprintf("invalid provider '%s', must be one of: local, rest", c.Identity.Provider),
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		return ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		}
	}

	if c.Connectivity.ProbeURL != "" {
		u, err := url.Parse(c.Connectivity.ProbeURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return ValidationError{
				Field:   "connectivity.probe_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Connectivity.ProbeURL),
			}
		}
	}

	if c.Connectivity.ProbeIntervalSecs < 5 {
		return ValidationError{
			Field:   "connectivity.probe_interval_secs",
			Message: "must be at least 5 seconds",
		}
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: 0600 permissions, the file may hold API keys.
// RELIABILITY: Atomic write with fsync prevents data loss on crash.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# kisan configuration file\n")
	buf.WriteString("# Generated by kisan - edit with care\n")
	buf.WriteString("\n")

	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// StoragePath resolves the database path, applying the default location.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "kisan.db"), nil
}
