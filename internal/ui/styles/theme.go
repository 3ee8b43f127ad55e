// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the kisan TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	TabSeparator lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	PendingBubble   lipgloss.Style
	PendingMarker   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	StatusPending lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// CARD STYLES
	// ==========================================================================

	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardLabel lipgloss.Style
	CardValue lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormLabel        lipgloss.Style
	FormField        lipgloss.Style
	FormFieldFocused lipgloss.Style
	FormHint         lipgloss.Style
	Button           lipgloss.Style
	ButtonFocused    lipgloss.Style

	// ==========================================================================
	// ADVISORY STYLES
	// ==========================================================================

	AlertGreen    lipgloss.Style
	AlertYellow   lipgloss.Style
	AlertRed      lipgloss.Style
	AdvisoryBox   lipgloss.Style
	AdvisoryStale lipgloss.Style

	// ==========================================================================
	// CHART STYLES
	// ==========================================================================

	ChartBarStyle lipgloss.Style
	ChartAxisText lipgloss.Style
	TickerUp      lipgloss.Style
	TickerDown    lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// WELCOME / LOGIN STYLES
	// ==========================================================================

	WelcomeBox     lipgloss.Style
	WelcomeLogo    lipgloss.Style
	WelcomeVersion lipgloss.Style
	WelcomeInfo    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Leaf)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Leaf).
		Bold(true).
		Padding(0, 1)

	t.TabSeparator = lipgloss.NewStyle().
		Foreground(OverlayDim)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.PendingBubble = lipgloss.NewStyle().
		Foreground(PendingBubbleFg).
		Background(PendingBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PendingBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.PendingMarker = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Leaf).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusOnline = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusOffline = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.StatusPending = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Leaf).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Cards
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.CardTitle = lipgloss.NewStyle().
		Foreground(Leaf).
		Bold(true)

	t.CardLabel = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CardValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	// Forms
	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(16)

	t.FormField = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.FormFieldFocused = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(FocusRing).
		Padding(0, 1)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Overlay).
		Padding(0, 2).
		MarginRight(1)

	t.ButtonFocused = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Leaf).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	// Advisory
	t.AlertGreen = lipgloss.NewStyle().
		Foreground(AlertGreenFg).
		Background(AlertGreenBg).
		Padding(0, 1)

	t.AlertYellow = lipgloss.NewStyle().
		Foreground(AlertYellowFg).
		Background(AlertYellowBg).
		Padding(0, 1)

	t.AlertRed = lipgloss.NewStyle().
		Foreground(AlertRedFg).
		Background(AlertRedBg).
		Bold(true).
		Padding(0, 1)

	t.AdvisoryBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Leaf).
		Padding(0, 1)

	t.AdvisoryStale = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	// Charts
	t.ChartBarStyle = lipgloss.NewStyle().
		Foreground(ChartBar)

	t.ChartAxisText = lipgloss.NewStyle().
		Foreground(ChartAxis)

	t.TickerUp = lipgloss.NewStyle().
		Foreground(TrendUp).
		Bold(true)

	t.TickerDown = lipgloss.NewStyle().
		Foreground(TrendDown).
		Bold(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Leaf)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Welcome / login
	t.WelcomeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Leaf).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.WelcomeLogo = lipgloss.NewStyle().
		Foreground(Leaf).
		Bold(true)

	t.WelcomeVersion = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.WelcomeInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
