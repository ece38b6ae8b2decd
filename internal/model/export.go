package model

// PortfolioExport bundles everything the xlsx report renders.
type PortfolioExport struct {
	Summary   PortfolioSummary
	Holdings  []Holding
	Realized  []RealizedEntry
	Dividends []Dividend
}
