package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	TransactionID int64           `db:"transaction_id"`
	Symbol        string          `db:"symbol"`
	Side          string          `db:"side"`
	TradeDate     time.Time       `db:"trade_date"`
	Quantity      decimal.Decimal `db:"quantity"`
	Price         decimal.Decimal `db:"price"`
	Fee           decimal.Decimal `db:"fee"`
	Tax           decimal.Decimal `db:"tax"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Notes         *string         `db:"notes"`
	CreatedAt     time.Time       `db:"dt_create"`
}
