package accounting

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func buy(date, qty, price, fee string) Entry {
	return Entry{Symbol: "2330", Side: SideBuy, Date: day(date), Quantity: d(qty), Price: d(price), Fee: d(fee), Tax: decimal.Zero}
}

func sell(date, qty, price, fee, tax string) Entry {
	return Entry{Symbol: "2330", Side: SideSell, Date: day(date), Quantity: d(qty), Price: d(price), Fee: d(fee), Tax: d(tax)}
}

func TestReplay_WeightedAverageBuys(t *testing.T) {
	tests := []struct {
		name        string
		entries     []Entry
		wantQty     string
		wantAvgCost string
	}{
		{
			name:        "single buy without fee",
			entries:     []Entry{buy("2024-01-02", "100", "10", "0")},
			wantQty:     "100",
			wantAvgCost: "10",
		},
		{
			name: "two buys average",
			entries: []Entry{
				buy("2024-01-02", "100", "10", "0"),
				buy("2024-01-03", "100", "20", "0"),
			},
			wantQty:     "200",
			wantAvgCost: "15",
		},
		{
			name:        "fee capitalized into basis",
			entries:     []Entry{buy("2024-01-02", "1000", "500", "20")},
			wantQty:     "1000",
			wantAvgCost: "500.02",
		},
		{
			name: "three buys match sum formula",
			entries: []Entry{
				buy("2024-01-02", "10", "100", "5"),
				buy("2024-02-02", "20", "110", "5"),
				buy("2024-03-02", "30", "90", "5"),
			},
			wantQty: "60",
			// (10*100 + 20*110 + 30*90 + 15) / 60
			wantAvgCost: "99.25",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := Replay(tt.entries)
			if err != nil {
				t.Fatalf("Replay() error = %v", err)
			}
			if !pos.Quantity.Equal(d(tt.wantQty)) {
				t.Errorf("quantity = %s, want %s", pos.Quantity, tt.wantQty)
			}
			if !pos.AverageCost.Equal(d(tt.wantAvgCost)) {
				t.Errorf("averageCost = %s, want %s", pos.AverageCost, tt.wantAvgCost)
			}
			if len(pos.RealizedEvents) != 0 {
				t.Errorf("realizedEvents = %d, want 0", len(pos.RealizedEvents))
			}
		})
	}
}

func TestReplay_SellKeepsAverageCost(t *testing.T) {
	pos, err := Replay([]Entry{
		buy("2024-01-02", "100", "10", "0"),
		buy("2024-01-03", "100", "20", "0"),
		sell("2024-01-04", "50", "30", "0", "0"),
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if !pos.AverageCost.Equal(d("15")) {
		t.Errorf("averageCost = %s, want 15 (unchanged by sell)", pos.AverageCost)
	}
	if !pos.Quantity.Equal(d("150")) {
		t.Errorf("quantity = %s, want 150", pos.Quantity)
	}
	if !pos.RealizedPL.Equal(d("750")) {
		t.Errorf("realizedPL = %s, want 750", pos.RealizedPL)
	}

	if len(pos.RealizedEvents) != 1 {
		t.Fatalf("realizedEvents = %d, want 1", len(pos.RealizedEvents))
	}
	ev := pos.RealizedEvents[0]
	if !ev.Proceeds.Equal(d("1500")) {
		t.Errorf("proceeds = %s, want 1500", ev.Proceeds)
	}
	if !ev.CostOfSold.Equal(d("750")) {
		t.Errorf("costOfSold = %s, want 750", ev.CostOfSold)
	}
	if !ev.RealizedGain.Equal(d("750")) {
		t.Errorf("realizedGain = %s, want 750", ev.RealizedGain)
	}
}

func TestReplay_FullLiquidationResetsBasis(t *testing.T) {
	pos, err := Replay([]Entry{
		buy("2024-01-02", "100", "10", "0"),
		sell("2024-01-10", "100", "12", "0", "0"),
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !pos.Quantity.IsZero() {
		t.Errorf("quantity = %s, want 0", pos.Quantity)
	}
	if !pos.AverageCost.IsZero() {
		t.Errorf("averageCost = %s, want 0 after full liquidation", pos.AverageCost)
	}

	// A later unrelated buy starts from a fresh basis.
	pos, err = Replay([]Entry{
		buy("2024-01-02", "100", "10", "0"),
		sell("2024-01-10", "100", "12", "0", "0"),
		buy("2024-02-01", "50", "40", "0"),
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if !pos.AverageCost.Equal(d("40")) {
		t.Errorf("averageCost = %s, want 40", pos.AverageCost)
	}
	if !pos.RealizedPL.Equal(d("200")) {
		t.Errorf("realizedPL = %s, want 200", pos.RealizedPL)
	}
}

func TestReplay_OversellRejected(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{
			name:    "sell with no position",
			entries: []Entry{sell("2024-01-02", "10", "100", "0", "0")},
		},
		{
			name: "sell more than held",
			entries: []Entry{
				buy("2024-01-02", "100", "10", "0"),
				sell("2024-01-03", "101", "10", "0", "0"),
			},
		},
		{
			name: "backdated sell before the covering buy",
			entries: []Entry{
				buy("2024-01-02", "100", "10", "0"),
				sell("2024-01-03", "100", "10", "0", "0"),
				sell("2024-01-04", "1", "10", "0", "0"),
				buy("2024-01-05", "100", "10", "0"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(tt.entries)
			if !errors.Is(err, ErrInsufficientQuantity) {
				t.Errorf("Replay() error = %v, want ErrInsufficientQuantity", err)
			}
		})
	}
}

// End-to-end sequence from the manual: buy 1000 @ 500 fee 20, buy 1000 @ 520
// fee 20, sell 500 @ 600 fee 30 tax 10.
func TestReplay_EndToEnd(t *testing.T) {
	pos, err := Replay([]Entry{
		buy("2024-01-02", "1000", "500", "20"),
		buy("2024-01-10", "1000", "520", "20"),
		sell("2024-01-20", "500", "600", "30", "10"),
	})
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if !pos.Quantity.Equal(d("1500")) {
		t.Errorf("quantity = %s, want 1500", pos.Quantity)
	}
	if !pos.AverageCost.Equal(d("510.02")) {
		t.Errorf("averageCost = %s, want 510.02", pos.AverageCost)
	}
	if !pos.RealizedPL.Equal(d("44950")) {
		t.Errorf("realizedPL = %s, want 44950", pos.RealizedPL)
	}

	if len(pos.RealizedEvents) != 1 {
		t.Fatalf("realizedEvents = %d, want 1", len(pos.RealizedEvents))
	}
	ev := pos.RealizedEvents[0]
	if !ev.Proceeds.Equal(d("299960")) {
		t.Errorf("proceeds = %s, want 299960", ev.Proceeds)
	}
	if !ev.CostOfSold.Equal(d("255010")) {
		t.Errorf("costOfSold = %s, want 255010", ev.CostOfSold)
	}
}

func TestReplay_Deterministic(t *testing.T) {
	entries := []Entry{
		buy("2024-01-02", "33", "101.5", "1.25"),
		buy("2024-01-05", "67", "99.8", "1.25"),
		sell("2024-02-01", "40", "110.4", "2", "1"),
		buy("2024-03-01", "10", "120", "0.5"),
	}

	first, err := Replay(entries)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	second, err := Replay(entries)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if !first.Quantity.Equal(second.Quantity) ||
		!first.AverageCost.Equal(second.AverageCost) ||
		!first.RealizedPL.Equal(second.RealizedPL) {
		t.Errorf("replay not deterministic: %+v vs %+v", first, second)
	}
}
