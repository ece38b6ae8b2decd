package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dividend struct {
	DividendID       int64           `db:"dividend_id"`
	Symbol           string          `db:"symbol"`
	ExDividendDate   time.Time       `db:"ex_dividend_date"`
	PaymentDate      *time.Time      `db:"payment_date"`
	DividendPerShare decimal.Decimal `db:"dividend_per_share"`
	Quantity         decimal.Decimal `db:"quantity"`
	TotalDividend    decimal.Decimal `db:"total_dividend"`
	Tax              decimal.Decimal `db:"tax"`
	NetDividend      decimal.Decimal `db:"net_dividend"`
	DividendType     *string         `db:"dividend_type"`
	Notes            *string         `db:"notes"`
	CreatedAt        time.Time       `db:"dt_create"`
}
