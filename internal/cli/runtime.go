// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Shared service wiring for CLI handlers and the TUI.
package cli

import (
	"fmt"

	"github.com/krishiuday/kisan-tui/internal/chatsync"
	"github.com/krishiuday/kisan-tui/internal/config"
	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/genai"
	"github.com/krishiuday/kisan-tui/internal/identity"
	"github.com/krishiuday/kisan-tui/internal/session"
	"github.com/krishiuday/kisan-tui/internal/storage"
)

// Env holds the wired application services. Both the CLI handlers and the
// TUI entry point build one of these, so wiring lives in a single place.
type Env struct {
	Cfg      *config.Config
	Store    *storage.Store
	Monitor  *connectivity.Monitor
	Client   *genai.Client
	Provider identity.Provider
	Gate     *session.Gate
	Engine   *chatsync.Engine

	// Flag overrides outlive config reloads: a -m/--language on the
	// command line wins over the file for the whole run.
	modelOverride    string
	languageOverride string
}

// BuildEnv loads configuration and wires up every service the application
// uses. Callers must Close the returned Env.
func BuildEnv(args Args) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if args.Model != "" {
		cfg.AI.Model = args.Model
	}
	if args.Language != "" {
		cfg.AI.Language = args.Language
	}

	dbPath, err := cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// Assume online until the first probe says otherwise; a wrong initial
	// guess is corrected before any send because sends follow a probe.
	monitor := connectivity.NewMonitor(true)
	monitor.ProbeURL = cfg.Connectivity.ProbeURL

	client := genai.NewClient(cfg.AI.GeminiKey)
	if cfg.AI.Model != "" {
		client = client.WithModel(cfg.AI.Model)
	}

	var provider identity.Provider
	if cfg.Identity.Provider == "rest" {
		provider = identity.NewRESTProvider(cfg.Identity.APIKey)
	} else {
		provider = identity.NewLocalProvider()
	}

	gate := session.NewGate(store)
	gate.Restore()

	engine := chatsync.NewEngine(store, client, monitor)

	return &Env{
		Cfg:      cfg,
		Store:    store,
		Monitor:  monitor,
		Client:   client,
		Provider: provider,
		Gate:     gate,
		Engine:   engine,

		modelOverride:    args.Model,
		languageOverride: args.Language,
	}, nil
}

// ApplyConfig pushes a reloaded configuration into the running services:
// generation model and advisory language, and the reachability endpoint.
// Storage path and identity provider changes need a restart.
func (e *Env) ApplyConfig(cfg *config.Config) {
	if e.modelOverride != "" {
		cfg.AI.Model = e.modelOverride
	}
	if e.languageOverride != "" {
		cfg.AI.Language = e.languageOverride
	}

	e.Client.SetModel(cfg.AI.Model)
	e.Monitor.SetProbeURL(cfg.Connectivity.ProbeURL)
	e.Cfg = cfg
}

// Close releases the Env's resources.
func (e *Env) Close() {
	if e.Provider != nil {
		e.Provider.Close()
	}
	if e.Store != nil {
		e.Store.Close()
	}
}
