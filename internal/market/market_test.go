// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package market

import "testing"

func TestWheatTrend(t *testing.T) {
	trend := WheatTrend()
	if len(trend) != 6 {
		t.Fatalf("expected 6 months, got %d", len(trend))
	}
	if trend[0].Month != "Jan" || trend[5].Month != "Jun" {
		t.Errorf("unexpected month range: %s..%s", trend[0].Month, trend[5].Month)
	}
	for _, p := range trend {
		if p.Price <= 0 {
			t.Errorf("non-positive price for %s", p.Month)
		}
	}
}

func TestTrendBounds(t *testing.T) {
	min, max := TrendBounds(WheatTrend())
	if min != 2100 || max != 2300 {
		t.Errorf("bounds = %d..%d, want 2100..2300", min, max)
	}

	min, max = TrendBounds(nil)
	if min != 0 || max != 0 {
		t.Errorf("empty trend bounds = %d..%d, want 0..0", min, max)
	}
}

func TestTickers(t *testing.T) {
	tickers := Tickers()
	if len(tickers) != 3 {
		t.Fatalf("expected 3 tickers, got %d", len(tickers))
	}
	if tickers[0].Crop != "Wheat" {
		t.Errorf("first ticker should be Wheat, got %s", tickers[0].Crop)
	}
}
