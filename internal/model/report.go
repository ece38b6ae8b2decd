package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSummary aggregates the current holding snapshot. Market value and
// unrealized figures only cover holdings with a known current price; symbols
// without one are listed in MissingPriceSymbols.
type PortfolioSummary struct {
	TotalCost           decimal.Decimal `json:"totalCost"`
	TotalMarketValue    decimal.Decimal `json:"totalMarketValue"`
	TotalUnrealizedPL   decimal.Decimal `json:"totalUnrealizedPL"`
	TotalRealizedPL     decimal.Decimal `json:"totalRealizedPL"`
	HoldingsCount       int             `json:"holdingsCount"`
	MissingPriceSymbols []string        `json:"missingPriceSymbols,omitempty"`
}

type RealizedEntry struct {
	Symbol       string          `json:"symbol"`
	Date         time.Time       `json:"date"`
	Quantity     decimal.Decimal `json:"quantity"`
	Proceeds     decimal.Decimal `json:"proceeds"`
	CostOfSold   decimal.Decimal `json:"costOfSold"`
	RealizedGain decimal.Decimal `json:"realizedGain"`
}

type RealizedPLReport struct {
	Entries   []RealizedEntry `json:"entries"`
	TotalGain decimal.Decimal `json:"totalGain"`
}

type RealizedPLFilter struct {
	Symbol string
	From   *time.Time
	To     *time.Time
}

// PerformanceReport: totalReturnPct = (marketValue + realizedPL + netDividends
// - costEverInvested) / costEverInvested * 100, where costEverInvested is the
// sum over all buys of quantity*price+fee. Zero when nothing was ever bought.
type PerformanceReport struct {
	CostEverInvested  decimal.Decimal `json:"costEverInvested"`
	MarketValue       decimal.Decimal `json:"marketValue"`
	RealizedPL        decimal.Decimal `json:"realizedPL"`
	UnrealizedPL      decimal.Decimal `json:"unrealizedPL"`
	TotalNetDividends decimal.Decimal `json:"totalNetDividends"`
	TotalReturnPct    decimal.Decimal `json:"totalReturnPct"`
}

type RecalcResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}
