package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Holding struct {
	Symbol              string           `db:"symbol"`
	Quantity            decimal.Decimal  `db:"quantity"`
	AverageCost         decimal.Decimal  `db:"average_cost"`
	TotalCost           decimal.Decimal  `db:"total_cost"`
	RealizedPL          decimal.Decimal  `db:"realized_pl"`
	CurrentPrice        *decimal.Decimal `db:"current_price"`
	MarketValue         *decimal.Decimal `db:"market_value"`
	UnrealizedPL        *decimal.Decimal `db:"unrealized_pl"`
	UnrealizedPLPercent *decimal.Decimal `db:"unrealized_pl_percent"`
	UpdatedAt           time.Time        `db:"dt_update"`
}
