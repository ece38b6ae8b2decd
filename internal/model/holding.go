package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is fully derived from the transaction ledger; it is replaced
// wholesale on every recalculation and never hand-edited. Valuation fields are
// nil while no current price is known.
type Holding struct {
	Symbol              string           `json:"symbol"`
	Quantity            decimal.Decimal  `json:"quantity"`
	AverageCost         decimal.Decimal  `json:"averageCost"`
	TotalCost           decimal.Decimal  `json:"totalCost"`
	RealizedPL          decimal.Decimal  `json:"realizedPL"`
	CurrentPrice        *decimal.Decimal `json:"currentPrice,omitempty"`
	MarketValue         *decimal.Decimal `json:"marketValue,omitempty"`
	UnrealizedPL        *decimal.Decimal `json:"unrealizedPL,omitempty"`
	UnrealizedPLPercent *decimal.Decimal `json:"unrealizedPLPercent,omitempty"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}
