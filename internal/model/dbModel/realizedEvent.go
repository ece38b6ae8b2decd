package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type RealizedEvent struct {
	EventID      int64           `db:"event_id"`
	Symbol       string          `db:"symbol"`
	TradeDate    time.Time       `db:"trade_date"`
	Quantity     decimal.Decimal `db:"quantity"`
	Proceeds     decimal.Decimal `db:"proceeds"`
	CostOfSold   decimal.Decimal `db:"cost_of_sold"`
	RealizedGain decimal.Decimal `db:"realized_gain"`
}
