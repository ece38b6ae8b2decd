package model

import "time"

const (
	StockTypeEquity = "equity"
	StockTypeETF    = "etf"
)

type Stock struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Market    *string   `json:"market,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	IsActive  bool      `json:"isActive"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
