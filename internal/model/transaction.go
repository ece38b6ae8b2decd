package model

import (
	"time"

	"github.com/anitachen83-jpg/portfolio-management/internal/accounting"
	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int64           `json:"id"`
	Symbol      string          `json:"symbol"`
	Side        accounting.Side `json:"side"`
	Date        time.Time       `json:"date"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	Tax         decimal.Decimal `json:"tax"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
