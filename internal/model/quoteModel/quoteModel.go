package quoteModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
	AsOf   time.Time
}

// RawQuotes mirrors the TWSE mis endpoint payload: one msgArray element per
// requested symbol, every field a string.
type RawQuotes struct {
	MsgArray []struct {
		Symbol    string `json:"c"`
		Name      string `json:"n"`
		LastPrice string `json:"z"`
		BestBid   string `json:"b"`
		Timestamp string `json:"tlong"`
	} `json:"msgArray"`
	Rtmessage string `json:"rtmessage"`
	Rtcode    string `json:"rtcode"`
}
