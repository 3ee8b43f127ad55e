// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/krishiuday/kisan-tui/internal/config"
	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/genai"
)

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("expected CmdTUI, got %v", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		args []string
		want Command
	}{
		{[]string{"chat"}, CmdChat},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"login"}, CmdLogin},
		{[]string{"logout"}, CmdLogout},
		{[]string{"signout"}, CmdLogout},
		{[]string{"config"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
		{[]string{"tui"}, CmdTUI},
	}
	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.args)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, cmd, tt.want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"-q", "--model", "gemini-2.0-flash", "chat"})
	if cmd != CmdChat {
		t.Fatalf("expected CmdChat, got %v", cmd)
	}
	if !args.Quiet {
		t.Error("expected Quiet to be set")
	}
	if args.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", args.Model)
	}
}

func TestParseFlagEqualsForm(t *testing.T) {
	_, args := ParseArgs([]string{"--language=Hindi", "status"})
	if args.Language != "Hindi" {
		t.Errorf("Language = %q", args.Language)
	}
}

func TestParseConfigSet(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "ai.language", "Marathi"})
	if cmd != CmdConfig {
		t.Fatalf("expected CmdConfig, got %v", cmd)
	}
	if args.Subcommand != "set" || args.ConfigKey != "ai.language" || args.ConfigVal != "Marathi" {
		t.Errorf("parsed config args = %+v", args)
	}
}

func TestParseConfigDefaultsToShow(t *testing.T) {
	_, args := ParseArgs([]string{"config"})
	if args.Subcommand != "show" {
		t.Errorf("Subcommand = %q, want show", args.Subcommand)
	}
}

func TestParseUnknownCommandIsHelp(t *testing.T) {
	cmd, _ := ParseArgs([]string{"frobnicate"})
	if cmd != CmdHelp {
		t.Errorf("expected CmdHelp for unknown command, got %v", cmd)
	}
}

func TestApplyConfigUpdatesServices(t *testing.T) {
	env := &Env{
		Client:  genai.NewClient("key").WithModel("gemini-2.5-flash"),
		Monitor: connectivity.NewMonitor(true),
	}

	cfg := config.Default()
	cfg.AI.Model = "gemini-2.0-flash"
	cfg.Connectivity.ProbeURL = "http://gateway.local/204"
	env.ApplyConfig(cfg)

	if got := env.Client.Model(); got != "gemini-2.0-flash" {
		t.Errorf("model after reload = %q", got)
	}
	if env.Monitor.ProbeURL != "http://gateway.local/204" {
		t.Errorf("probe URL after reload = %q", env.Monitor.ProbeURL)
	}
	if env.Cfg != cfg {
		t.Error("reloaded config not recorded on the env")
	}
}

func TestApplyConfigKeepsFlagOverrides(t *testing.T) {
	env := &Env{
		Client:        genai.NewClient("key").WithModel("pinned-model"),
		Monitor:       connectivity.NewMonitor(true),
		modelOverride: "pinned-model",
	}

	cfg := config.Default()
	cfg.AI.Model = "gemini-2.0-flash"
	env.ApplyConfig(cfg)

	if got := env.Client.Model(); got != "pinned-model" {
		t.Errorf("flag override lost on reload: model = %q", got)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret(""); got != "(not set)" {
		t.Errorf("maskSecret(empty) = %q", got)
	}
	if got := maskSecret("abc"); got != "****" {
		t.Errorf("maskSecret(short) = %q", got)
	}
	if got := maskSecret("AIzaSyExample1234"); got != "****1234" {
		t.Errorf("maskSecret(long) = %q", got)
	}
}
