// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package market holds the static market and weather snapshot shown on the
// dashboard and market views. The data is a bundled reference set, not a
// live feed; it renders identically offline.
package market

// WeatherSnapshot is the current-conditions card on the dashboard.
type WeatherSnapshot struct {
	TempC     int
	Condition string
	Humidity  int // percent
	WindKmh   int
	Location  string
}

// PricePoint is one month of a crop price trend, rupees per quintal.
type PricePoint struct {
	Month string
	Price int
}

// Ticker is one crop's current price card.
type Ticker struct {
	Crop          string
	PricePerQt    int
	ChangePercent float64
}

// Weather returns the bundled weather snapshot.
func Weather() WeatherSnapshot {
	return WeatherSnapshot{
		TempC:     28,
		Condition: "Partly Cloudy",
		Humidity:  65,
		WindKmh:   12,
		Location:  "Ludhiana, Punjab",
	}
}

// WheatTrend returns the six-month wheat price trend.
func WheatTrend() []PricePoint {
	return []PricePoint{
		{Month: "Jan", Price: 2100},
		{Month: "Feb", Price: 2150},
		{Month: "Mar", Price: 2200},
		{Month: "Apr", Price: 2180},
		{Month: "May", Price: 2250},
		{Month: "Jun", Price: 2300},
	}
}

// Tickers returns the current-price cards.
func Tickers() []Ticker {
	return []Ticker{
		{Crop: "Wheat", PricePerQt: 2100, ChangePercent: 2.4},
		{Crop: "Rice", PricePerQt: 2250, ChangePercent: 2.4},
		{Crop: "Cotton", PricePerQt: 2400, ChangePercent: 2.4},
	}
}

// TrendBounds returns the min and max price of a trend, for chart scaling.
func TrendBounds(trend []PricePoint) (min, max int) {
	if len(trend) == 0 {
		return 0, 0
	}
	min, max = trend[0].Price, trend[0].Price
	for _, p := range trend[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max
}
