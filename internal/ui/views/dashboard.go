// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/krishiuday/kisan-tui/internal/market"
	"github.com/krishiuday/kisan-tui/internal/model"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
	"github.com/krishiuday/kisan-tui/internal/util"
)

// =============================================================================
// DASHBOARD VIEW - Weather, market tickers, and last advisory at a glance
// =============================================================================

// DashboardModel is the Bubble Tea model for the dashboard view.
type DashboardModel struct {
	theme *styles.Theme

	weather  market.WeatherSnapshot
	tickers  []market.Ticker
	advisory *model.AdvisoryResult
	userName string

	width  int
	height int
}

// NewDashboard creates the dashboard view with the bundled market data.
func NewDashboard(theme *styles.Theme) DashboardModel {
	return DashboardModel{
		theme:   theme,
		weather: market.Weather(),
		tickers: market.Tickers(),
	}
}

// SetSize updates the view dimensions.
func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetUserName updates the greeting.
func (m *DashboardModel) SetUserName(name string) {
	m.userName = name
}

// SetAdvisory updates the last-advisory card. Pass nil when none is cached.
func (m *DashboardModel) SetAdvisory(res *model.AdvisoryResult) {
	m.advisory = res
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	greeting := "Namaste"
	if m.userName != "" {
		greeting = "Namaste, " + m.userName
	}
	b.WriteString(m.theme.CardTitle.Render(greeting))
	b.WriteString("\n\n")

	cards := []string{m.renderWeatherCard(), m.renderTickerCard()}
	if m.width >= 80 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[0], " ", cards[1]))
	} else {
		b.WriteString(cards[0])
		b.WriteString("\n")
		b.WriteString(cards[1])
	}
	b.WriteString("\n")
	b.WriteString(m.renderAdvisoryCard())
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormHint.Render("Press 2 for a new advisory, 3 to chat, 4 for market prices"))

	return m.theme.Container.Render(b.String())
}

// renderWeatherCard renders the current-conditions card.
func (m DashboardModel) renderWeatherCard() string {
	w := m.weather
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("Weather"))
	b.WriteString("  ")
	b.WriteString(m.theme.CardLabel.Render(w.Location))
	b.WriteString("\n")
	b.WriteString(m.theme.CardValue.Render(fmt.Sprintf("%d°C", w.TempC)))
	b.WriteString("  ")
	b.WriteString(m.theme.CardLabel.Render(w.Condition))
	b.WriteString("\n")
	b.WriteString(m.theme.CardLabel.Render(
		fmt.Sprintf("Humidity %d%%  Wind %d km/h", w.Humidity, w.WindKmh)))
	return m.theme.Card.Render(b.String())
}

// renderTickerCard renders the crop price summary card.
func (m DashboardModel) renderTickerCard() string {
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("Mandi Prices"))
	b.WriteString("\n")
	for _, t := range m.tickers {
		change := fmt.Sprintf("+%.1f%%", t.ChangePercent)
		changeStyled := m.theme.TickerUp.Render(change)
		if t.ChangePercent < 0 {
			changeStyled = m.theme.TickerDown.Render(fmt.Sprintf("%.1f%%", t.ChangePercent))
		}
		b.WriteString(fmt.Sprintf("%s ₹%d/qt %s\n",
			util.PadWidth(t.Crop, 8), t.PricePerQt, changeStyled))
	}
	return m.theme.Card.Render(strings.TrimRight(b.String(), "\n"))
}

// renderAdvisoryCard renders the cached advisory summary, or a prompt to
// create one.
func (m DashboardModel) renderAdvisoryCard() string {
	var b strings.Builder
	b.WriteString(m.theme.CardTitle.Render("Crop Advisory"))
	b.WriteString("\n")
	if m.advisory == nil {
		b.WriteString(m.theme.CardLabel.Render("No advisory yet. Press 2 to generate one for your farm."))
	} else {
		summary := util.TruncateRunes(m.advisory.Summary, 160)
		b.WriteString(m.theme.CardValue.Render(summary))
		b.WriteString("\n")
		b.WriteString(m.theme.CardLabel.Render(
			"Generated " + m.advisory.GeneratedAt.Format("2 Jan 2006 15:04")))
	}
	return m.theme.Card.Render(b.String())
}
