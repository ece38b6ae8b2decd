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

// RecordBuy appends a buy to the symbol's ledger and rebuilds its holding in
// the same database transaction. Total amount of a buy is qty*price + fee.
func (s *PortfolioService) RecordBuy(ctx context.Context, symbol string, date time.Time, quantity, price, fee decimal.Decimal, notes *string) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecordBuy"

	slog.Debug("RecordBuy start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RecordBuy finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if err := validateAmounts(quantity, price, fee, decimal.Zero); err != nil {
		return model.Transaction{}, err
	}
	if err := s.checkSymbolRegistered(ctx, symbol); err != nil {
		return model.Transaction{}, err
	}

	totalAmount := quantity.Mul(price).Add(fee).Round(moneyScale)

	tx := dbModel.Transaction{
		Symbol:      symbol,
		Side:        string(accounting.SideBuy),
		TradeDate:   date,
		Quantity:    quantity.Round(quantityScale),
		Price:       price.Round(perShareScale),
		Fee:         fee.Round(moneyScale),
		Tax:         decimal.Zero,
		TotalAmount: totalAmount,
		Notes:       notes,
	}

	recorded, err := s.appendAndRecalc(ctx, symbol, tx)
	if err != nil {
		slog.Error("got error appending buy", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	metrics.TransactionsRecorded.WithLabelValues("buy").Inc()

	return recorded, nil
}

// RecordSell appends a sell. The replay inside the transaction rejects the
// write with ErrInsufficientQuantity before anything is committed, including
// backdated sells that would oversell at their point in the ledger. Total
// amount of a sell is qty*price - fee - tax.
func (s *PortfolioService) RecordSell(ctx context.Context, symbol string, date time.Time, quantity, price, fee, tax decimal.Decimal, notes *string) (model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RecordSell"

	slog.Debug("RecordSell start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("RecordSell finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if err := validateAmounts(quantity, price, fee, tax); err != nil {
		return model.Transaction{}, err
	}
	if err := s.checkSymbolRegistered(ctx, symbol); err != nil {
		return model.Transaction{}, err
	}

	totalAmount := quantity.Mul(price).Sub(fee).Sub(tax).Round(moneyScale)

	tx := dbModel.Transaction{
		Symbol:      symbol,
		Side:        string(accounting.SideSell),
		TradeDate:   date,
		Quantity:    quantity.Round(quantityScale),
		Price:       price.Round(perShareScale),
		Fee:         fee.Round(moneyScale),
		Tax:         tax.Round(moneyScale),
		TotalAmount: totalAmount,
		Notes:       notes,
	}

	recorded, err := s.appendAndRecalc(ctx, symbol, tx)
	if err != nil {
		if errors.Is(err, accounting.ErrInsufficientQuantity) {
			return model.Transaction{}, service.ErrInsufficientQuantity
		}
		slog.Error("got error appending sell", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Transaction{}, err
	}

	metrics.TransactionsRecorded.WithLabelValues("sell").Inc()

	return recorded, nil
}

// appendAndRecalc serializes with other writers of the symbol, then inserts
// the transaction and rebuilds the holding atomically. On any failure the
// ledger and holding are left untouched.
func (s *PortfolioService) appendAndRecalc(ctx context.Context, symbol string, tx dbModel.Transaction) (model.Transaction, error) {
	unlock := s.locks.lock(symbol)
	defer unlock()

	var transactionID int64

	err := s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		transactionID, err = s.repo.InsertTransaction(ctx, tx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return service.ErrUnknownSymbol
			}
			return err
		}

		return s.recalcSymbolTx(ctx, symbol)
	})
	if err != nil {
		return model.Transaction{}, err
	}

	if err := s.cache.FlushReports(ctx); err != nil {
		slog.Warn("can't flush reports cache", slog.String("err", err.Error()))
	}

	tx.TransactionID = transactionID
	tx.CreatedAt = time.Now()

	return dbConverter.ConvertTransaction(tx), nil
}

func (s *PortfolioService) GetTransactions(ctx context.Context) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetTransactions"

	txs, err := s.repo.GetTransactions(ctx)
	if err != nil {
		slog.Error("got error from repo.GetTransactions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertTransactions(txs), nil
}

func (s *PortfolioService) GetTransactionsBySymbol(ctx context.Context, symbol string) ([]model.Transaction, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetTransactionsBySymbol"

	txs, err := s.repo.GetTransactionsBySymbol(ctx, symbol)
	if err != nil {
		slog.Error("got error from repo.GetTransactionsBySymbol", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertTransactions(txs), nil
}

func (s *PortfolioService) checkSymbolRegistered(ctx context.Context, symbol string) error {
	stock, err := s.repo.GetStock(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrUnknownSymbol
		}
		return err
	}
	if !stock.IsActive {
		return service.ErrStockNotActive
	}
	return nil
}

func validateAmounts(quantity, price, fee, tax decimal.Decimal) error {
	if !quantity.IsPositive() {
		return service.ErrInvalidAmount
	}
	if price.IsNegative() || fee.IsNegative() || tax.IsNegative() {
		return service.ErrInvalidAmount
	}
	return nil
}
