// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// configcmd.go - Config command handler for the kisan CLI.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/krishiuday/kisan-tui/internal/config"
)

// HandleConfig dispatches the config subcommands: show (default), init,
// and set KEY VALUE.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "", "show":
		configShow()
	case "init":
		configInit()
	case "set":
		configSet(args.ConfigKey, args.ConfigVal)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args.Subcommand)
		fmt.Fprintln(os.Stderr, "Usage: kisan config [show|init|set KEY VALUE]")
		os.Exit(1)
	}
}

func configShow() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	path, _ := config.ConfigPath()
	fmt.Println(welcomeStyle.Render("Kisan Sahayak Configuration"))
	fmt.Println(infoStyle.Render("File: " + path))
	fmt.Println()

	statusLine("ai.model", cfg.AI.Model)
	statusLine("ai.language", cfg.AI.Language)
	statusLine("ai.gemini_key", maskSecret(cfg.AI.GeminiKey))
	statusLine("identity", cfg.Identity.Provider)
	statusLine("probe_url", cfg.Connectivity.ProbeURL)
	statusLine("ui.theme", cfg.UI.Theme)
	if storage, err := cfg.StoragePath(); err == nil {
		statusLine("storage", storage)
	}
}

func configInit() {
	path, err := config.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Config already exists at %s\n", path)
		os.Exit(1)
	}
	if err := config.Save(config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	fmt.Println(statusOKStyle.Render("Wrote default config to " + path))
	fmt.Println(infoStyle.Render("Set your Gemini key: kisan config set ai.gemini_key YOUR_KEY"))
}

func configSet(key, value string) {
	if key == "" || value == "" {
		fmt.Fprintln(os.Stderr, "Usage: kisan config set KEY VALUE")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}

	switch key {
	case "ai.model":
		cfg.AI.Model = value
	case "ai.language":
		cfg.AI.Language = value
	case "ai.gemini_key":
		cfg.AI.GeminiKey = value
	case "identity.provider":
		cfg.Identity.Provider = value
	case "identity.api_key":
		cfg.Identity.APIKey = value
	case "connectivity.probe_url":
		cfg.Connectivity.ProbeURL = value
	case "storage.path":
		cfg.Storage.Path = value
	case "ui.theme":
		cfg.UI.Theme = value
	default:
		fmt.Fprintf(os.Stderr, "Unknown config key: %s\n", key)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	shown := value
	if strings.HasSuffix(key, "key") {
		shown = maskSecret(value)
	}
	fmt.Println(statusOKStyle.Render(fmt.Sprintf("Set %s = %s", key, shown)))
}

// maskSecret hides all but the last 4 characters of a credential.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
