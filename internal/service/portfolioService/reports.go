package portfolioService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/internal/converter/dbConverter"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/shopspring/decimal"
)

// GetSummary aggregates the holding snapshot. Holdings without a known price
// contribute to cost totals but are excluded from market value and flagged.
func (s *PortfolioService) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetSummary"

	slog.Debug("GetSummary start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetSummary finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	summary, err := s.cache.GetSummary(ctx)
	if err == nil {
		return summary, nil
	}

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PortfolioSummary{}, err
	}

	summary = model.PortfolioSummary{
		TotalCost:         decimal.Zero,
		TotalMarketValue:  decimal.Zero,
		TotalUnrealizedPL: decimal.Zero,
		TotalRealizedPL:   decimal.Zero,
	}

	for _, h := range holdings {
		summary.HoldingsCount++
		summary.TotalCost = summary.TotalCost.Add(h.TotalCost)
		summary.TotalRealizedPL = summary.TotalRealizedPL.Add(h.RealizedPL)

		if h.MarketValue == nil {
			if h.Quantity.IsPositive() {
				summary.MissingPriceSymbols = append(summary.MissingPriceSymbols, h.Symbol)
			}
			continue
		}

		summary.TotalMarketValue = summary.TotalMarketValue.Add(*h.MarketValue)
		if h.UnrealizedPL != nil {
			summary.TotalUnrealizedPL = summary.TotalUnrealizedPL.Add(*h.UnrealizedPL)
		}
	}

	if err := s.cache.SetSummary(ctx, summary); err != nil {
		slog.Warn("can't cache summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return summary, nil
}

func (s *PortfolioService) GetRealizedPL(ctx context.Context, filter model.RealizedPLFilter) (model.RealizedPLReport, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetRealizedPL"

	slog.Debug("GetRealizedPL start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetRealizedPL finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	var from, to *string
	if filter.From != nil {
		v := filter.From.Format("2006-01-02")
		from = &v
	}
	if filter.To != nil {
		v := filter.To.Format("2006-01-02")
		to = &v
	}

	events, err := s.repo.GetRealizedEvents(ctx, filter.Symbol, from, to)
	if err != nil {
		slog.Error("got error from repo.GetRealizedEvents", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RealizedPLReport{}, err
	}

	report := model.RealizedPLReport{
		Entries:   dbConverter.ConvertRealizedEvents(events),
		TotalGain: decimal.Zero,
	}
	for _, ev := range events {
		report.TotalGain = report.TotalGain.Add(ev.RealizedGain)
	}

	return report, nil
}

// GetPerformance derives the portfolio's total return. See
// model.PerformanceReport for the formula.
func (s *PortfolioService) GetPerformance(ctx context.Context) (model.PerformanceReport, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPerformance"

	slog.Debug("GetPerformance start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("GetPerformance finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	summary, err := s.GetSummary(ctx)
	if err != nil {
		return model.PerformanceReport{}, err
	}

	costEverInvested, err := s.repo.GetBuyCostTotal(ctx)
	if err != nil {
		slog.Error("got error from repo.GetBuyCostTotal", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PerformanceReport{}, err
	}

	netDividends, err := s.repo.GetNetDividendTotal(ctx)
	if err != nil {
		slog.Error("got error from repo.GetNetDividendTotal", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.PerformanceReport{}, err
	}

	report := model.PerformanceReport{
		CostEverInvested:  costEverInvested,
		MarketValue:       summary.TotalMarketValue,
		RealizedPL:        summary.TotalRealizedPL,
		UnrealizedPL:      summary.TotalUnrealizedPL,
		TotalNetDividends: netDividends,
		TotalReturnPct:    decimal.Zero,
	}

	if costEverInvested.IsPositive() {
		gain := summary.TotalMarketValue.
			Add(summary.TotalRealizedPL).
			Add(netDividends).
			Sub(costEverInvested)
		report.TotalReturnPct = gain.Div(costEverInvested).Mul(decimal.NewFromInt(100)).Round(perShareScale)
	}

	return report, nil
}

// ExportReport renders the portfolio workbook. With upload set and cloud
// storage configured, the file is pushed there and the download link returned
// alongside the bytes.
func (s *PortfolioService) ExportReport(ctx context.Context, upload bool) (fileBytes []byte, filename string, downloadLink string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ExportReport"

	slog.Debug("ExportReport start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ExportReport finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	summary, err := s.GetSummary(ctx)
	if err != nil {
		return nil, "", "", err
	}

	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return nil, "", "", err
	}

	realized, err := s.GetRealizedPL(ctx, model.RealizedPLFilter{})
	if err != nil {
		return nil, "", "", err
	}

	dividends, err := s.GetDividends(ctx)
	if err != nil {
		return nil, "", "", err
	}

	export := model.PortfolioExport{
		Summary:   summary,
		Holdings:  holdings,
		Realized:  realized.Entries,
		Dividends: dividends,
	}

	fileBytes, fileExtension, err := s.reportGenerator.Generate(ctx, export)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", "", err
	}

	filename = fmt.Sprintf("portfolio_%s%s", time.Now().Format("20060102_150405"), fileExtension)

	if upload && s.cloudStorage != nil {
		downloadLink, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
		if err != nil {
			slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", "", err
		}
	}

	return fileBytes, filename, downloadLink, nil
}
