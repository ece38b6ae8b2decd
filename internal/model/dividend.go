package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dividend struct {
	ID               int64           `json:"id"`
	Symbol           string          `json:"symbol"`
	ExDividendDate   time.Time       `json:"exDividendDate"`
	PaymentDate      *time.Time      `json:"paymentDate,omitempty"`
	DividendPerShare decimal.Decimal `json:"dividendPerShare"`
	Quantity         decimal.Decimal `json:"quantity"`
	TotalDividend    decimal.Decimal `json:"totalDividend"`
	Tax              decimal.Decimal `json:"tax"`
	NetDividend      decimal.Decimal `json:"netDividend"`
	DividendType     *string         `json:"dividendType,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}
