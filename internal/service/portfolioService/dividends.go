package portfolioService

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/accounting"
	"github.com/anitachen83-jpg/portfolio-management/internal/converter/dbConverter"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/internal/service"
	"github.com/anitachen83-jpg/portfolio-management/utils"
)

// CreateDividend stores a dividend record with its totals computed once, at
// creation time. When quantity is zero the quantity held right now is used.
func (s *PortfolioService) CreateDividend(ctx context.Context, dividend model.Dividend) (model.Dividend, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateDividend"

	slog.Debug("CreateDividend start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", dividend.Symbol))
	defer func() {
		slog.Debug("CreateDividend finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", dividend.Symbol))
	}()

	if dividend.DividendPerShare.IsNegative() || dividend.Quantity.IsNegative() || dividend.Tax.IsNegative() {
		return model.Dividend{}, service.ErrInvalidAmount
	}

	if err := s.checkSymbolRegistered(ctx, dividend.Symbol); err != nil && !errors.Is(err, service.ErrStockNotActive) {
		return model.Dividend{}, err
	}

	if dividend.Quantity.IsZero() {
		holding, err := s.repo.GetHolding(ctx, dividend.Symbol)
		if err == nil {
			dividend.Quantity = holding.Quantity
		} else if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("got error from repo.GetHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return model.Dividend{}, err
		}
	}

	total, net := accounting.DividendTotals(dividend.DividendPerShare, dividend.Quantity, dividend.Tax)

	dbDividend := dbModel.Dividend{
		Symbol:           dividend.Symbol,
		ExDividendDate:   dividend.ExDividendDate,
		PaymentDate:      dividend.PaymentDate,
		DividendPerShare: dividend.DividendPerShare.Round(perShareScale),
		Quantity:         dividend.Quantity.Round(quantityScale),
		TotalDividend:    total.Round(moneyScale),
		Tax:              dividend.Tax.Round(moneyScale),
		NetDividend:      net.Round(moneyScale),
		DividendType:     dividend.DividendType,
		Notes:            dividend.Notes,
	}

	dividendID, err := s.repo.InsertDividend(ctx, dbDividend)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Dividend{}, service.ErrUnknownSymbol
		}
		slog.Error("got error from repo.InsertDividend", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Dividend{}, err
	}

	dbDividend.DividendID = dividendID
	dbDividend.CreatedAt = time.Now()

	return dbConverter.ConvertDividend(dbDividend), nil
}

func (s *PortfolioService) GetDividends(ctx context.Context) ([]model.Dividend, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetDividends"

	dividends, err := s.repo.GetDividends(ctx)
	if err != nil {
		slog.Error("got error from repo.GetDividends", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertDividends(dividends), nil
}

func (s *PortfolioService) GetDividendsBySymbol(ctx context.Context, symbol string) ([]model.Dividend, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetDividendsBySymbol"

	dividends, err := s.repo.GetDividendsBySymbol(ctx, symbol)
	if err != nil {
		slog.Error("got error from repo.GetDividendsBySymbol", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertDividends(dividends), nil
}

func (s *PortfolioService) GetDividendsByYear(ctx context.Context, year int) ([]model.Dividend, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetDividendsByYear"

	dividends, err := s.repo.GetDividendsByYear(ctx, year)
	if err != nil {
		slog.Error("got error from repo.GetDividendsByYear", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertDividends(dividends), nil
}
