// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"fmt"
	"strings"

	"github.com/krishiuday/kisan-tui/internal/market"
	"github.com/krishiuday/kisan-tui/internal/ui/styles"
	"github.com/krishiuday/kisan-tui/internal/util"
)

// =============================================================================
// MARKET VIEW - Price trend chart and crop tickers
// =============================================================================

// maxBarWidth caps the trend bars so wide terminals stay readable.
const maxBarWidth = 40

// MarketModel is the Bubble Tea model for the market view.
type MarketModel struct {
	theme *styles.Theme

	trend   []market.PricePoint
	tickers []market.Ticker

	width  int
	height int
}

// NewMarket creates the market view with the bundled price data.
func NewMarket(theme *styles.Theme) MarketModel {
	return MarketModel{
		theme:   theme,
		trend:   market.WheatTrend(),
		tickers: market.Tickers(),
	}
}

// SetSize updates the view dimensions.
func (m *MarketModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the market view.
func (m MarketModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.CardTitle.Render("Wheat Price Trend (₹/quintal)"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTrendChart())
	b.WriteString("\n\n")
	b.WriteString(m.theme.CardTitle.Render("Today's Mandi Prices"))
	b.WriteString("\n")
	b.WriteString(m.renderTickers())

	return m.theme.Container.Render(b.String())
}

// renderTrendChart renders a horizontal bar per month, scaled between the
// trend's min and max so small month-to-month moves stay visible.
func (m MarketModel) renderTrendChart() string {
	min, max := market.TrendBounds(m.trend)
	span := max - min
	if span == 0 {
		span = 1
	}

	barWidth := m.width - 20
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, p := range m.trend {
		// Keep a minimum bar so the lowest month still draws.
		filled := 2 + (p.Price-min)*(barWidth-2)/span
		bar := m.theme.ChartBarStyle.Render(strings.Repeat("█", filled))
		label := m.theme.ChartAxisText.Render(util.PadWidth(p.Month, 4))
		price := m.theme.ChartAxisText.Render(fmt.Sprintf("%d", p.Price))
		b.WriteString(label + bar + " " + price + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTickers renders the per-crop price cards.
func (m MarketModel) renderTickers() string {
	var b strings.Builder
	for _, t := range m.tickers {
		change := fmt.Sprintf("+%.1f%%", t.ChangePercent)
		styled := m.theme.TickerUp.Render(change)
		if t.ChangePercent < 0 {
			styled = m.theme.TickerDown.Render(fmt.Sprintf("%.1f%%", t.ChangePercent))
		}
		row := fmt.Sprintf("%s ₹%d/qt  %s",
			util.PadWidth(t.Crop, 8), t.PricePerQt, styled)
		b.WriteString(m.theme.Card.Render(row))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
