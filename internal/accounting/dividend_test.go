package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDividendTotals(t *testing.T) {
	tests := []struct {
		name      string
		perShare  string
		quantity  string
		tax       string
		wantTotal string
		wantNet   string
	}{
		{name: "no tax", perShare: "2.5", quantity: "1000", tax: "0", wantTotal: "2500", wantNet: "2500"},
		{name: "tax withheld", perShare: "1.2", quantity: "500", tax: "60", wantTotal: "600", wantNet: "540"},
		{name: "tax clamped at total", perShare: "0.1", quantity: "10", tax: "5", wantTotal: "1", wantNet: "0"},
		{name: "fractional per share", perShare: "0.0375", quantity: "800", tax: "3", wantTotal: "30", wantNet: "27"},
		{name: "zero quantity", perShare: "3", quantity: "0", tax: "0", wantTotal: "0", wantNet: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, net := DividendTotals(d(tt.perShare), d(tt.quantity), d(tt.tax))
			if !total.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", total, tt.wantTotal)
			}
			if !net.Equal(d(tt.wantNet)) {
				t.Errorf("net = %s, want %s", net, tt.wantNet)
			}
			if net.IsNegative() {
				t.Errorf("net dividend must never be negative, got %s", net)
			}
		})
	}
}

func TestDividendTotals_NetLaw(t *testing.T) {
	total, net := DividendTotals(decimal.RequireFromString("4.4"), decimal.RequireFromString("1250"), decimal.RequireFromString("275"))

	if !total.Equal(decimal.RequireFromString("5500")) {
		t.Fatalf("total = %s, want 5500", total)
	}
	if !net.Equal(total.Sub(decimal.RequireFromString("275"))) {
		t.Errorf("net = %s, want total - tax", net)
	}
}
