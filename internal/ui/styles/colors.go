// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the kisan TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Leaf - Primary accent, brand color, active tabs, selections
var Leaf = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// LeafDeep - Darker leaf green for backgrounds
var LeafDeep = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#14532D"}

// Sky - Weather, info, user highlights
var Sky = lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#38BDF8"}

// SkyDeep - Darker sky blue for backgrounds
var SkyDeep = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#0C4A6E"}

// Earth - Soil, secondary accent, market view
var Earth = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// EarthDeep - Darker earth tone for backgrounds
var EarthDeep = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#78350F"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, red pest alerts, offline state
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Darker rose for backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#881337"}

// Amber - Warnings, yellow pest alerts, pending messages
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// AmberDeep - Darker amber for backgrounds
var AmberDeep = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#78350F"}

// Emerald - Success, online state, green pest alerts
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F4", Dark: "#181412"}

// SurfaceBright - Slightly lighter/darker surface for highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAF9", Dark: "#292524"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E7E5E4", Dark: "#292524"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D6D3D1", Dark: "#44403C"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E7E5E4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A8A29E"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#78716C"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1917"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Green tones, anchored right
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DCFCE7", Dark: "#14532D"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#166534", Dark: "#DCFCE7"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#22C55E", Dark: "#22C55E"}

// Assistant message bubble - Neutral stone tones, anchored left
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F5F5F4", Dark: "#292524"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#44403C", Dark: "#E7E5E4"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#D6D3D1", Dark: "#57534E"}

// Pending message bubble - Amber tones for queued-offline messages
var PendingBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
var PendingBubbleFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}
var PendingBubbleBorder = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}

// =============================================================================
// PEST ALERT COLORS
// =============================================================================

// Alert levels mirror the advisory schema: Green / Yellow / Red.
var AlertGreenBg = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#064E3B"}
var AlertGreenFg = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#A7F3D0"}
var AlertYellowBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
var AlertYellowFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FDE68A"}
var AlertRedBg = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}
var AlertRedFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}

// =============================================================================
// CHART COLORS
// =============================================================================

// ChartBar - Price trend bars in the market view
var ChartBar = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// ChartAxis - Axis labels and gridlines
var ChartAxis = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#78716C"}

// TrendUp - Positive price change
var TrendUp = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// TrendDown - Negative price change
var TrendDown = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}

// =============================================================================
// SPECIAL EFFECTS
// =============================================================================

// Focus ring color
var FocusRing = Leaf

// Selection highlight
var SelectionBg = lipgloss.AdaptiveColor{Light: "#BBF7D0", Dark: "#1E3A2F"}

// =============================================================================
// ACCESSIBILITY: Shapes and high contrast for colorblind users
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Online  string // Filled dot for connected state
	Offline string // X mark for disconnected state
	Pending string // Clock for queued messages
	Success string // Checkmark for success states
	Error   string // X mark for error states
	Warning string // Warning marker for caution states
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
// ACCESSIBILITY: ASCII-only indicators for maximum compatibility and colorblind users.
var StatusIndicators = StatusIndicatorSet{
	Online:  "[*]",
	Offline: "[X]",
	Pending: "[~]",
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
}

// =============================================================================
// ACCESSIBILITY: High-contrast color pairs for colorblind users
// =============================================================================

// High contrast success - Bright green with bold, works for most color blindness types
var SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}

// High contrast error - Bright red with bold, distinct from green even for colorblind
var ErrorHighContrast = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}

// High contrast warning - Bright amber/orange, deuteranopia-friendly
var WarningHighContrast = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}

// High contrast info - Bright blue, distinct from red/green spectrum
var InfoHighContrast = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}

// =============================================================================
// ACCESSIBILITY: Helper functions for rendering accessible status messages
// =============================================================================

// RenderSuccess renders a success message with checkmark indicator and high contrast green.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with X mark indicator and high contrast red.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderError(message string) string {
	style := lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with warning indicator and high contrast amber.
// ACCESSIBILITY: Includes shape indicator for colorblind users.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}
