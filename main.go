// kisan TUI - A terminal companion for Indian farmers.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/krishiuday/kisan-tui/internal/advisory"
	"github.com/krishiuday/kisan-tui/internal/chatsync"
	"github.com/krishiuday/kisan-tui/internal/cli"
	"github.com/krishiuday/kisan-tui/internal/config"
	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/identity"
	"github.com/krishiuday/kisan-tui/internal/ui"
	"github.com/krishiuday/kisan-tui/internal/ui/views"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// redirectLogs points the stdlib logger at a file so diagnostics from the
// service layer do not draw over the TUI.
func redirectLogs() func() {
	dir, err := config.ConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	if err := config.EnsureConfigDir(); err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "kisan.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.SetOutput(io.Discard)
		return func() {}
	}
	log.SetOutput(f)
	return func() { f.Close() }
}

// runTUI wires the service layer into the Bubble Tea program and runs it.
func runTUI(args cli.Args) {
	closeLogs := redirectLogs()
	defer closeLogs()

	env, err := cli.BuildEnv(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	probeEvery := ui.DefaultProbeInterval
	if secs := env.Cfg.Connectivity.ProbeIntervalSecs; secs > 0 {
		probeEvery = time.Duration(secs) * time.Second
	}

	app := ui.NewApp(ui.Deps{
		Gate:          env.Gate,
		Engine:        env.Engine,
		Monitor:       env.Monitor,
		Advisories:    advisory.NewManager(env.Store, env.Client, env.Monitor),
		Identity:      env.Provider,
		ProbeInterval: probeEvery,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())

	// Live-reload the config file: model, language, and probe endpoint
	// changes take effect without a restart.
	if cfgPath, err := config.ConfigPath(); err == nil {
		if watcher, err := config.Watch(cfgPath, env.ApplyConfig); err == nil {
			defer watcher.Close()
		}
	}

	// Push engine and connectivity events into the running program.
	chatsync.Forward(env.Engine, program)
	unsubscribe := connectivity.Forward(env.Monitor, program)
	defer unsubscribe()
	stop := env.Engine.Start()
	defer stop()

	// The local provider has no SMS gateway; route codes to the login
	// view so development sign-ins work end to end.
	if local, ok := env.Provider.(*identity.LocalProvider); ok {
		local.Notify = func(_, code string) {
			program.Send(views.DevCodeMsg{Code: code})
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
