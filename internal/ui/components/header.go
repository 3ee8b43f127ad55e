// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the kisan TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT - App title and view tabs
// =============================================================================

// View identifies one of the main application views.
type View int

const (
	ViewDashboard View = iota
	ViewAdvisory
	ViewChat
	ViewMarket
)

// String returns the tab label for the view.
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewAdvisory:
		return "Advisory"
	case ViewChat:
		return "Chat"
	case ViewMarket:
		return "Market"
	default:
		return "Unknown"
	}
}

// Key returns the number key that activates the view.
func (v View) Key() string {
	switch v {
	case ViewDashboard:
		return "1"
	case ViewAdvisory:
		return "2"
	case ViewChat:
		return "3"
	case ViewMarket:
		return "4"
	default:
		return "?"
	}
}

// AllViews lists the views in tab order.
var AllViews = []View{ViewDashboard, ViewAdvisory, ViewChat, ViewMarket}

// Header represents the top application bar with the title and view tabs.
type Header struct {
	Active View
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a new Header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Active: ViewDashboard,
		Width:  80,
		theme:  theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetActive updates the highlighted tab.
func (h *Header) SetActive(v View) {
	h.Active = v
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render("Kisan Sahayak")

	tabs := make([]string, 0, len(AllViews))
	for _, v := range AllViews {
		label := v.Key() + ":" + v.String()
		if v == h.Active {
			tabs = append(tabs, h.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, h.theme.Tab.Render(label))
		}
	}
	sep := h.theme.TabSeparator.Render("|")
	tabRow := strings.Join(tabs, sep)

	// Right-align the tabs against the title
	gap := h.Width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}

	row := title + strings.Repeat(" ", gap) + tabRow

	return h.theme.Header.Width(h.Width).Render(row)
}
