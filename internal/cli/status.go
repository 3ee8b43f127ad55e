// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the kisan CLI.
//
// Reports connectivity, sign-in state, queued messages, and the age of the
// cached crop advisory in one glance.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/advisory"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
)

var (
	statusLabelStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary).
				Width(14)

	statusOKStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	statusBadStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

func statusLine(label, value string) {
	fmt.Printf("%s %s\n", statusLabelStyle.Render(label), value)
}

// HandleStatus prints the current client state.
func HandleStatus(args Args) {
	env, err := BuildEnv(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		os.Exit(1)
	}
	defer env.Close()

	fmt.Println(welcomeStyle.Render("Kisan Sahayak Status"))
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	online := env.Monitor.Probe(ctx)
	cancel()
	if online {
		statusLine("Connectivity", statusOKStyle.Render(styles.StatusIndicators.Online+" online"))
	} else {
		statusLine("Connectivity", statusBadStyle.Render(styles.StatusIndicators.Offline+" offline"))
	}

	if env.Gate.Authenticated() {
		statusLine("Signed in", statusOKStyle.Render(env.Gate.DisplayName()))
	} else {
		statusLine("Signed in", statusWarnStyle.Render("no (run: kisan login)"))
	}

	pending := env.Engine.PendingCount()
	if pending > 0 {
		statusLine("Queued", statusWarnStyle.Render(fmt.Sprintf("%d message(s) waiting to send", pending)))
	} else {
		statusLine("Queued", "none")
	}

	mgr := advisory.NewManager(env.Store, env.Client, env.Monitor)
	if cached, err := mgr.LoadCached(); err == nil {
		age := time.Since(cached.GeneratedAt).Round(time.Minute)
		statusLine("Advisory", fmt.Sprintf("cached %s ago (%s)",
			age, cached.GeneratedAt.Format("2 Jan 2006 15:04")))
	} else {
		statusLine("Advisory", "none yet")
	}

	statusLine("Model", env.Cfg.AI.Model)
	statusLine("Language", env.Cfg.AI.Language)
	if path, err := env.Cfg.StoragePath(); err == nil {
		statusLine("Storage", path)
	}
}
