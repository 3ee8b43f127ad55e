// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/ui/styles"
	"github.com/krishiuday/kisan-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Bottom bar with connectivity, queue, and user info
// =============================================================================

// StatusBar represents the bottom status bar.
type StatusBar struct {
	Online        bool   // Current connectivity state
	PendingCount  int    // Messages queued for delivery
	UserName      string // Display name of the signed-in user
	Busy          bool   // An advisory or reply is being generated
	Width         int    // Available width
	ShowShortcuts bool   // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Online:        true,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetOnline updates the connectivity indicator.
func (s *StatusBar) SetOnline(online bool) {
	s.Online = online
}

// SetPendingCount updates the queued-message count.
func (s *StatusBar) SetPendingCount(n int) {
	s.PendingCount = n
}

// SetUserName updates the signed-in user display.
func (s *StatusBar) SetUserName(name string) {
	s.UserName = name
}

// SetBusy updates the generation-in-progress indicator.
func (s *StatusBar) SetBusy(busy bool) {
	s.Busy = busy
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	leftParts := []string{s.renderConnectivity()}

	if s.PendingCount > 0 {
		leftParts = append(leftParts, s.renderPending())
	}

	if s.Busy {
		leftParts = append(leftParts, s.theme.ThinkingText.Render("Thinking..."))
	}

	if s.UserName != "" {
		userStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		// A long name must not push the shortcuts off the bar.
		leftParts = append(leftParts, userStyle.Render(util.TruncateWidth(s.UserName, 24)))
	}

	leftSection := strings.Join(leftParts, sep)

	rightSection := ""
	if s.ShowShortcuts && s.Width >= 60 {
		rightSection = s.renderShortcuts()
	}

	gap := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 4
	if gap < 1 {
		gap = 1
	}

	result := leftSection + strings.Repeat(" ", gap) + rightSection

	return s.theme.StatusBar.Width(s.Width).Render(result)
}

// renderConnectivity renders the online/offline badge.
// ACCESSIBILITY: Uses shape indicators alongside colors for colorblind users.
func (s *StatusBar) renderConnectivity() string {
	if s.Online {
		return s.theme.StatusOnline.Render(styles.StatusIndicators.Online + " Online")
	}
	return s.theme.StatusOffline.Render(styles.StatusIndicators.Offline + " Offline")
}

// renderPending renders the queued-message badge.
func (s *StatusBar) renderPending() string {
	label := fmt.Sprintf("%s %d queued", styles.StatusIndicators.Pending, s.PendingCount)
	return s.theme.StatusPending.Render(label)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		s.theme.ShortcutKey.Render("1-4") + s.theme.ShortcutDesc.Render("views"),
		s.theme.ShortcutKey.Render("^L") + s.theme.ShortcutDesc.Render("logout"),
		s.theme.ShortcutKey.Render("^C") + s.theme.ShortcutDesc.Render("quit"),
	}
	return strings.Join(shortcuts, " ")
}
