// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui contains the root Bubble Tea application model. It gates the
// main views behind sign-in, routes domain messages to the active view, and
// keeps the header and status bar in sync with connectivity and the message
// queue.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/advisory"
	"github.com/krishiuday/kisan-tui/internal/chatsync"
	"github.com/krishiuday/kisan-tui/internal/connectivity"
	"github.com/krishiuday/kisan-tui/internal/identity"
	"github.com/krishiuday/kisan-tui/internal/session"
	"github.com/krishiuday/kisan-tui/internal/ui/components"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
	"github.com/krishiuday/kisan-tui/internal/ui/views"
)

// DefaultProbeInterval is how often connectivity is re-checked while the
// program runs.
const DefaultProbeInterval = 15 * time.Second

// probeTickMsg schedules the next background connectivity probe.
type probeTickMsg struct{}

// Deps carries the wired application services into the root model.
type Deps struct {
	Gate          *session.Gate
	Engine        *chatsync.Engine
	Monitor       *connectivity.Monitor
	Advisories    *advisory.Manager
	Identity      identity.Provider
	ProbeInterval time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	theme     *styles.Theme
	header    *components.Header
	statusBar *components.StatusBar

	gate       *session.Gate
	engine     *chatsync.Engine
	monitor    *connectivity.Monitor
	advisories *advisory.Manager
	provider   identity.Provider
	probeEvery time.Duration

	login      views.LoginModel
	dashboard  views.DashboardModel
	advisory   views.AdvisoryModel
	chat       views.ChatModel
	marketView views.MarketModel

	active components.View
	authed bool

	width  int
	height int
}

// NewApp assembles the root model from wired services.
func NewApp(deps Deps) App {
	theme := styles.NewTheme()

	probeEvery := deps.ProbeInterval
	if probeEvery <= 0 {
		probeEvery = DefaultProbeInterval
	}

	a := App{
		theme:      theme,
		header:     components.NewHeader(theme),
		statusBar:  components.NewStatusBar(theme),
		gate:       deps.Gate,
		engine:     deps.Engine,
		monitor:    deps.Monitor,
		advisories: deps.Advisories,
		provider:   deps.Identity,
		probeEvery: probeEvery,
		login:      views.NewLogin(theme, deps.Identity),
		dashboard:  views.NewDashboard(theme),
		advisory:   views.NewAdvisory(theme, deps.Advisories),
		chat:       views.NewChat(theme, deps.Engine),
		marketView: views.NewMarket(theme),
		active:     components.ViewDashboard,
	}

	a.authed = deps.Gate.Authenticated()
	a.dashboard.SetUserName(deps.Gate.DisplayName())
	a.dashboard.SetAdvisory(a.advisory.Result())
	a.statusBar.SetOnline(deps.Monitor.Online())
	a.statusBar.SetUserName(deps.Gate.DisplayName())
	a.statusBar.SetPendingCount(deps.Engine.PendingCount())
	return a
}

// Init starts the initial connectivity probe and the probe timer.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		connectivity.ProbeCmd(a.monitor),
		a.probeTick(),
	)
}

// probeTick schedules the next periodic connectivity probe.
func (a App) probeTick() tea.Cmd {
	return tea.Tick(a.probeEvery, func(time.Time) tea.Msg {
		return probeTickMsg{}
	})
}

// Update is the root message router.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.layout(msg.Width, msg.Height)
		return a, nil

	case probeTickMsg:
		return a, tea.Batch(connectivity.ProbeCmd(a.monitor), a.probeTick())

	case connectivity.StatusMsg:
		a.statusBar.SetOnline(msg.Online)
		if msg.Online {
			// Reconciliation also runs off the monitor subscription;
			// the engine coalesces duplicate passes.
			return a, chatsync.ReconcileCmd(a.engine)
		}
		return a, nil

	case chatsync.TranscriptMsg, chatsync.ComposeDoneMsg, chatsync.ReconcileDoneMsg:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		a.statusBar.SetPendingCount(a.engine.PendingCount())
		a.statusBar.SetBusy(a.chat.Waiting())
		return a, cmd

	case views.LoginDoneMsg:
		return a.completeLogin(msg)

	case views.DevCodeMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case views.AdvisoryDoneMsg:
		var cmd tea.Cmd
		a.advisory, cmd = a.advisory.Update(msg)
		a.dashboard.SetAdvisory(a.advisory.Result())
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.routeToViews(msg)
}

// completeLogin persists the profile and unlocks the main views.
func (a App) completeLogin(msg views.LoginDoneMsg) (tea.Model, tea.Cmd) {
	profile := msg.Profile
	if err := a.gate.CompleteLogin(&profile); err != nil {
		// Persist failure keeps the user at the login screen.
		return a, nil
	}
	a.authed = true
	a.active = components.ViewDashboard
	a.header.SetActive(a.active)
	a.dashboard.SetUserName(a.gate.DisplayName())
	a.statusBar.SetUserName(a.gate.DisplayName())
	return a, nil
}

// handleKey applies global shortcuts, then delegates to the active view.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "ctrl+l":
		if err := a.gate.Logout(); err == nil {
			a.authed = false
			a.login = views.NewLogin(a.theme, a.provider)
			a.login.SetSize(a.width, a.height)
			a.statusBar.SetUserName("")
			a.dashboard.SetUserName("")
		}
		return a, nil
	case "alt+1":
		return a.switchView(components.ViewDashboard)
	case "alt+2":
		return a.switchView(components.ViewAdvisory)
	case "alt+3":
		return a.switchView(components.ViewChat)
	case "alt+4":
		return a.switchView(components.ViewMarket)
	}

	// Plain digits switch views only where no text field can capture them.
	if a.active == components.ViewDashboard || a.active == components.ViewMarket {
		switch msg.String() {
		case "1":
			return a.switchView(components.ViewDashboard)
		case "2":
			return a.switchView(components.ViewAdvisory)
		case "3":
			return a.switchView(components.ViewChat)
		case "4":
			return a.switchView(components.ViewMarket)
		}
	}

	return a.routeToActive(msg)
}

// switchView changes the active tab.
func (a App) switchView(v components.View) (tea.Model, tea.Cmd) {
	a.active = v
	a.header.SetActive(v)
	return a, nil
}

// routeToActive delegates a message to the view that is showing.
func (a App) routeToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case components.ViewAdvisory:
		a.advisory, cmd = a.advisory.Update(msg)
		a.dashboard.SetAdvisory(a.advisory.Result())
	case components.ViewChat:
		a.chat, cmd = a.chat.Update(msg)
		a.statusBar.SetPendingCount(a.engine.PendingCount())
		a.statusBar.SetBusy(a.chat.Waiting())
	}
	return a, cmd
}

// routeToViews delegates ambient messages (spinner ticks, voice results) to
// the views that animate.
func (a App) routeToViews(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.advisory, cmd = a.advisory.Update(msg)
	cmds = append(cmds, cmd)
	a.chat, cmd = a.chat.Update(msg)
	cmds = append(cmds, cmd)
	a.statusBar.SetBusy(a.chat.Waiting() || a.advisories.Generating())
	return a, tea.Batch(cmds...)
}

// layout distributes the window size to all components.
func (a *App) layout(width, height int) {
	a.width = width
	a.height = height
	a.theme.SetSize(width, height)
	a.header.SetWidth(width)
	a.statusBar.SetWidth(width)

	bodyHeight := height - 4 // header and status bar rows
	if bodyHeight < 4 {
		bodyHeight = 4
	}
	a.login.SetSize(width, height)
	a.dashboard.SetSize(width, bodyHeight)
	a.advisory.SetSize(width, bodyHeight)
	a.chat.SetSize(width, bodyHeight)
	a.marketView.SetSize(width, bodyHeight)
}

// View renders the full screen.
func (a App) View() string {
	if !a.authed {
		return a.login.View()
	}

	var body string
	switch a.active {
	case components.ViewAdvisory:
		body = a.advisory.View()
	case components.ViewChat:
		body = a.chat.View()
	case components.ViewMarket:
		body = a.marketView.View()
	default:
		body = a.dashboard.View()
	}

	bodyHeight := a.height - 4
	if bodyHeight > 0 {
		body = lipgloss.NewStyle().Height(bodyHeight).Render(body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header.View(),
		body,
		a.statusBar.View(),
	)
}
