package xslsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type XSLSXGenerator struct{}

func New() *XSLSXGenerator {
	return &XSLSXGenerator{}
}

// Generate renders the portfolio workbook: summary, holdings, realized P/L
// and dividends, one sheet each.
func (g *XSLSXGenerator) Generate(ctx context.Context, export model.PortfolioExport) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XSLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	if err := g.fillSummarySheet(f, export.Summary); err != nil {
		return nil, "", err
	}
	if err := g.fillHoldingsSheet(f, export.Holdings); err != nil {
		return nil, "", err
	}
	if err := g.fillRealizedSheet(f, export.Realized); err != nil {
		return nil, "", err
	}
	if err := g.fillDividendsSheet(f, export.Dividends); err != nil {
		return nil, "", err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func (g *XSLSXGenerator) fillSummarySheet(f *excelize.File, summary model.PortfolioSummary) error {
	const sheetName = "Summary"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	rows := [][]any{
		{"Total Cost", summary.TotalCost.InexactFloat64()},
		{"Total Market Value", summary.TotalMarketValue.InexactFloat64()},
		{"Total Unrealized P/L", summary.TotalUnrealizedPL.InexactFloat64()},
		{"Total Realized P/L", summary.TotalRealizedPL.InexactFloat64()},
		{"Holdings", summary.HoldingsCount},
	}

	for i, row := range rows {
		if err := g.setRow(f, sheetName, i+1, row); err != nil {
			return err
		}
	}

	if len(summary.MissingPriceSymbols) > 0 {
		row := []any{"Missing Price", fmt.Sprintf("%v", summary.MissingPriceSymbols)}
		if err := g.setRow(f, sheetName, len(rows)+1, row); err != nil {
			return err
		}
	}

	return nil
}

func (g *XSLSXGenerator) fillHoldingsSheet(f *excelize.File, holdings []model.Holding) error {
	const sheetName = "Holdings"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []any{"Symbol", "Quantity", "Average Cost", "Total Cost", "Current Price", "Market Value", "Unrealized P/L", "Unrealized P/L %", "Realized P/L"}
	if err := g.setRow(f, sheetName, 1, header); err != nil {
		return err
	}

	for i, h := range holdings {
		row := []any{
			h.Symbol,
			h.Quantity.InexactFloat64(),
			h.AverageCost.InexactFloat64(),
			h.TotalCost.InexactFloat64(),
			optionalDecimal(h.CurrentPrice),
			optionalDecimal(h.MarketValue),
			optionalDecimal(h.UnrealizedPL),
			optionalDecimal(h.UnrealizedPLPercent),
			h.RealizedPL.InexactFloat64(),
		}
		if err := g.setRow(f, sheetName, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func (g *XSLSXGenerator) fillRealizedSheet(f *excelize.File, entries []model.RealizedEntry) error {
	const sheetName = "Realized PL"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []any{"Symbol", "Date", "Quantity", "Proceeds", "Cost of Sold", "Realized Gain"}
	if err := g.setRow(f, sheetName, 1, header); err != nil {
		return err
	}

	for i, e := range entries {
		row := []any{
			e.Symbol,
			e.Date.Format("2006-01-02"),
			e.Quantity.InexactFloat64(),
			e.Proceeds.InexactFloat64(),
			e.CostOfSold.InexactFloat64(),
			e.RealizedGain.InexactFloat64(),
		}
		if err := g.setRow(f, sheetName, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func (g *XSLSXGenerator) fillDividendsSheet(f *excelize.File, dividends []model.Dividend) error {
	const sheetName = "Dividends"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	header := []any{"Symbol", "Ex-Dividend Date", "Per Share", "Quantity", "Total", "Tax", "Net"}
	if err := g.setRow(f, sheetName, 1, header); err != nil {
		return err
	}

	for i, d := range dividends {
		row := []any{
			d.Symbol,
			d.ExDividendDate.Format("2006-01-02"),
			d.DividendPerShare.InexactFloat64(),
			d.Quantity.InexactFloat64(),
			d.TotalDividend.InexactFloat64(),
			d.Tax.InexactFloat64(),
			d.NetDividend.InexactFloat64(),
		}
		if err := g.setRow(f, sheetName, i+2, row); err != nil {
			return err
		}
	}

	return nil
}

func (g *XSLSXGenerator) setRow(f *excelize.File, sheetName string, rowNum int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if value == nil {
			continue
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	return nil
}

func optionalDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}
