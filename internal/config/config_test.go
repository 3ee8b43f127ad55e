// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
	if cfg.Identity.Provider != "local" {
		t.Errorf("default provider should be local, got %s", cfg.Identity.Provider)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.AI.GeminiKey = "test-key"
	cfg.AI.Language = "Hindi (हिंदी)"
	cfg.UI.Theme = "dark"
	cfg.Identity.Provider = "rest"
	cfg.Identity.APIKey = "verify-key"

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	// Saved with restrictive permissions.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config saved with %o, want 0600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.AI.GeminiKey != "test-key" {
		t.Errorf("gemini key lost: %q", loaded.AI.GeminiKey)
	}
	if loaded.AI.Language != "Hindi (हिंदी)" {
		t.Errorf("language lost: %q", loaded.AI.Language)
	}
	if loaded.Identity.Provider != "rest" || loaded.Identity.APIKey != "verify-key" {
		t.Errorf("identity config lost: %+v", loaded.Identity)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("explicit value lost: %q", cfg.UI.Theme)
	}
	if cfg.AI.Model == "" || cfg.Connectivity.ProbeURL == "" {
		t.Error("missing values should be defaulted")
	}
	if cfg.Connectivity.ProbeIntervalSecs <= 0 {
		t.Error("probe interval should be defaulted")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad provider", func(c *Config) { c.Identity.Provider = "carrier-pigeon" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }},
		{"bad probe url", func(c *Config) { c.Connectivity.ProbeURL = "not a url" }},
		{"probe interval too low", func(c *Config) { c.Connectivity.ProbeIntervalSecs = 1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("KISAN_THEME", "light")
	t.Setenv("KISAN_IDENTITY_PROVIDER", "rest")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.AI.GeminiKey != "env-key" {
		t.Errorf("GEMINI_API_KEY not applied: %q", cfg.AI.GeminiKey)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("KISAN_THEME not applied: %q", cfg.UI.Theme)
	}
	if cfg.Identity.Provider != "rest" {
		t.Errorf("KISAN_IDENTITY_PROVIDER not applied: %q", cfg.Identity.Provider)
	}
}

func TestStoragePathOverride(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = "/tmp/custom.db"

	path, err := cfg.StoragePath()
	if err != nil {
		t.Fatalf("StoragePath failed: %v", err)
	}
	if path != "/tmp/custom.db" {
		t.Errorf("override not honored: %s", path)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := SaveTOML(Default(), path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	changed := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	updated := Default()
	updated.UI.Theme = "dark"
	if err := SaveTOML(updated, path); err != nil {
		t.Fatalf("second SaveTOML failed: %v", err)
	}

	select {
	case cfg := <-changed:
		if cfg.UI.Theme != "dark" {
			t.Errorf("reloaded config stale: %q", cfg.UI.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never reported the change")
	}
}
