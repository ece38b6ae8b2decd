package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/accounting"
	"github.com/anitachen83-jpg/portfolio-management/internal/converter/dbConverter"
	"github.com/anitachen83-jpg/portfolio-management/internal/metrics"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/internal/service"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/shopspring/decimal"
)

// Persisted scales: per-share values carry 4 fractional digits, money totals
// 2, share quantities 2. Intermediate replay state keeps full precision;
// rounding happens exactly once, here at the persistence boundary.
const (
	perShareScale = 4
	moneyScale    = 2
	quantityScale = 2
)

func (s *PortfolioService) GetHolding(ctx context.Context, symbol string) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetHolding"

	holding, err := s.repo.GetHolding(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Holding{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return dbConverter.ConvertHolding(holding), nil
}

func (s *PortfolioService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetHoldings"

	holdings, err := s.cache.GetHoldings(ctx)
	if err == nil {
		return holdings, nil
	}

	dbHoldings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	holdings = dbConverter.ConvertHoldings(dbHoldings)

	if err := s.cache.SetHoldings(ctx, holdings); err != nil {
		slog.Warn("can't cache holdings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return holdings, nil
}

// RecalculateAll rebuilds every symbol's holding from its full ledger. One
// inconsistent symbol is reported in the result and skipped; it never aborts
// the run, and its holding keeps the last known-good value. Locks are taken
// per symbol, so unrelated symbols stay writable during the sweep.
func (s *PortfolioService) RecalculateAll(ctx context.Context) (model.RecalcResult, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecalculateAll"

	slog.Debug("RecalculateAll start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RecalculateAll finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	symbols, err := s.repo.GetTransactionSymbols(ctx)
	if err != nil {
		slog.Error("got error from repo.GetTransactionSymbols", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.RecalcResult{}, err
	}

	result := model.RecalcResult{}

	for _, symbol := range symbols {
		err := s.recalcSymbolLocked(ctx, symbol)
		if err != nil {
			slog.Error("recalculation failed for symbol",
				slog.String("rqID", rqID), slog.String("op", op),
				slog.String("symbol", symbol), slog.String("err", err.Error()))
			metrics.Recalculations.WithLabelValues("failed").Inc()
			result.Failed = append(result.Failed, symbol)
			continue
		}
		metrics.Recalculations.WithLabelValues("ok").Inc()
		result.Updated++
	}

	if err := s.cache.FlushReports(ctx); err != nil {
		slog.Warn("can't flush reports cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return result, nil
}

// RecalculateAllJob adapts RecalculateAll to the scheduler's task signature.
func (s *PortfolioService) RecalculateAllJob(ctx context.Context) error {
	ctx = utils.CtxWithRqID(ctx, "")

	result, err := s.RecalculateAll(ctx)
	if err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		slog.Warn("scheduled recalculation finished with failures", slog.Any("failed", result.Failed))
	}
	return nil
}

// RecalculateOne rebuilds a single symbol's holding.
func (s *PortfolioService) RecalculateOne(ctx context.Context, symbol string) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecalculateOne"

	slog.Debug("RecalculateOne start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RecalculateOne finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if err := s.checkSymbolRegistered(ctx, symbol); err != nil && !errors.Is(err, service.ErrStockNotActive) {
		return model.Holding{}, err
	}

	err := s.recalcSymbolLocked(ctx, symbol)
	if err != nil {
		slog.Error("got error from recalcSymbolLocked", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	if err := s.cache.FlushReports(ctx); err != nil {
		slog.Warn("can't flush reports cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return s.GetHolding(ctx, symbol)
}

func (s *PortfolioService) recalcSymbolLocked(ctx context.Context, symbol string) error {
	unlock := s.locks.lock(symbol)
	defer unlock()

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.recalcSymbolTx(ctx, symbol)
	})
	if errors.Is(err, accounting.ErrInsufficientQuantity) {
		// An oversell baked into history: the holding keeps its last
		// known-good value.
		return service.ErrLedgerInconsistency
	}
	return err
}

// recalcSymbolTx replays the symbol's full ledger and replaces its holding row
// and realized event history. Must run inside a database transaction with the
// symbol lock held.
func (s *PortfolioService) recalcSymbolTx(ctx context.Context, symbol string) error {
	txs, err := s.repo.GetTransactionsBySymbol(ctx, symbol)
	if err != nil {
		return err
	}

	entries := make([]accounting.Entry, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, accounting.Entry{
			Symbol:   tx.Symbol,
			Side:     accounting.Side(tx.Side),
			Date:     tx.TradeDate,
			Quantity: tx.Quantity,
			Price:    tx.Price,
			Fee:      tx.Fee,
			Tax:      tx.Tax,
		})
	}

	pos, err := accounting.Replay(entries)
	if err != nil {
		return err
	}

	// Current price is supplied out of band; carry it over so a recompute
	// does not wipe the valuation.
	var currentPrice *decimal.Decimal
	existing, err := s.repo.GetHolding(ctx, symbol)
	if err == nil {
		currentPrice = existing.CurrentPrice
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	holding := buildHolding(symbol, pos, currentPrice, time.Now())

	if err := s.repo.UpsertHolding(ctx, holding); err != nil {
		return err
	}

	events := make([]dbModel.RealizedEvent, 0, len(pos.RealizedEvents))
	for _, ev := range pos.RealizedEvents {
		events = append(events, dbModel.RealizedEvent{
			Symbol:       ev.Symbol,
			TradeDate:    ev.Date,
			Quantity:     ev.Quantity.Round(quantityScale),
			Proceeds:     ev.Proceeds.Round(moneyScale),
			CostOfSold:   ev.CostOfSold.Round(moneyScale),
			RealizedGain: ev.RealizedGain.Round(moneyScale),
		})
	}

	return s.repo.ReplaceRealizedEvents(ctx, symbol, events)
}

// buildHolding rounds the replayed position into its persisted shape.
// Zero-quantity holdings are retained (with zero cost fields) so a fully
// liquidated position stays auditable.
func buildHolding(symbol string, pos accounting.Position, currentPrice *decimal.Decimal, now time.Time) dbModel.Holding {
	quantity := pos.Quantity.Round(quantityScale)
	averageCost := pos.AverageCost.Round(perShareScale)
	totalCost := pos.Quantity.Mul(pos.AverageCost).Round(moneyScale)

	holding := dbModel.Holding{
		Symbol:       symbol,
		Quantity:     quantity,
		AverageCost:  averageCost,
		TotalCost:    totalCost,
		RealizedPL:   pos.RealizedPL.Round(moneyScale),
		CurrentPrice: currentPrice,
		UpdatedAt:    now,
	}

	if currentPrice != nil && quantity.IsPositive() {
		marketValue := currentPrice.Mul(quantity).Round(moneyScale)
		unrealizedPL := marketValue.Sub(totalCost)

		holding.MarketValue = &marketValue
		holding.UnrealizedPL = &unrealizedPL

		if !totalCost.IsZero() {
			pct := unrealizedPL.Div(totalCost).Mul(decimal.NewFromInt(100)).Round(perShareScale)
			holding.UnrealizedPLPercent = &pct
		}
	}

	return holding
}

// RefreshQuotes pulls current prices for every held symbol and refreshes the
// valuation fields. Position and cost figures are untouched: the ledger stays
// the only source of truth for those.
func (s *PortfolioService) RefreshQuotes(ctx context.Context) error {
	ctx = utils.CtxWithRqID(ctx, utils.GetRequestIDFromCtx(ctx))
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RefreshQuotes"

	slog.Debug("RefreshQuotes start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("RefreshQuotes finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity.IsPositive() {
			symbols = append(symbols, h.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil
	}

	quotes, err := s.quoteApi.GetQuotes(ctx, symbols)
	if err != nil {
		slog.Error("got error from quoteApi.GetQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	for _, h := range holdings {
		quote, ok := quotes[h.Symbol]
		if !ok {
			continue
		}

		if err := s.SetCurrentPrice(ctx, h.Symbol, quote.Price); err != nil {
			slog.Error("can't set current price",
				slog.String("rqID", rqID), slog.String("op", op),
				slog.String("symbol", h.Symbol), slog.String("err", err.Error()))
		}
	}

	if err := s.cache.FlushReports(ctx); err != nil {
		slog.Warn("can't flush reports cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return nil
}

// SetCurrentPrice stores a manually supplied (or fetched) market price on the
// holding and recomputes its valuation fields.
func (s *PortfolioService) SetCurrentPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	if price.IsNegative() {
		return service.ErrInvalidAmount
	}

	unlock := s.locks.lock(symbol)
	defer unlock()

	holding, err := s.repo.GetHolding(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		return err
	}

	rounded := price.Round(perShareScale)
	holding.CurrentPrice = &rounded
	holding.MarketValue = nil
	holding.UnrealizedPL = nil
	holding.UnrealizedPLPercent = nil
	holding.UpdatedAt = time.Now()

	if holding.Quantity.IsPositive() {
		marketValue := rounded.Mul(holding.Quantity).Round(moneyScale)
		unrealizedPL := marketValue.Sub(holding.TotalCost)
		holding.MarketValue = &marketValue
		holding.UnrealizedPL = &unrealizedPL

		if !holding.TotalCost.IsZero() {
			pct := unrealizedPL.Div(holding.TotalCost).Mul(decimal.NewFromInt(100)).Round(perShareScale)
			holding.UnrealizedPLPercent = &pct
		}
	}

	return s.repo.UpsertHolding(ctx, holding)
}
