package portfolioService

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/quoteModel"
	"github.com/anitachen83-jpg/portfolio-management/internal/converter/dbConverter"
	"github.com/anitachen83-jpg/portfolio-management/internal/service"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error

	InsertStock(ctx context.Context, stock dbModel.Stock) error
	GetStock(ctx context.Context, symbol string) (dbModel.Stock, error)
	GetStocks(ctx context.Context) ([]dbModel.Stock, error)
	GetStocksByType(ctx context.Context, stockType string) ([]dbModel.Stock, error)
	SearchStocks(ctx context.Context, keyword string) ([]dbModel.Stock, error)
	UpdateStock(ctx context.Context, stock dbModel.Stock) error
	DeleteStock(ctx context.Context, symbol string) error

	InsertTransaction(ctx context.Context, tx dbModel.Transaction) (int64, error)
	GetTransactions(ctx context.Context) ([]dbModel.Transaction, error)
	GetTransactionsBySymbol(ctx context.Context, symbol string) ([]dbModel.Transaction, error)
	GetTransactionSymbols(ctx context.Context) ([]string, error)
	GetBuyCostTotal(ctx context.Context) (decimal.Decimal, error)

	UpsertHolding(ctx context.Context, holding dbModel.Holding) error
	GetHolding(ctx context.Context, symbol string) (dbModel.Holding, error)
	GetHoldings(ctx context.Context) ([]dbModel.Holding, error)
	ReplaceRealizedEvents(ctx context.Context, symbol string, events []dbModel.RealizedEvent) error
	GetRealizedEvents(ctx context.Context, symbol string, from, to *string) ([]dbModel.RealizedEvent, error)

	InsertDividend(ctx context.Context, dividend dbModel.Dividend) (int64, error)
	GetDividends(ctx context.Context) ([]dbModel.Dividend, error)
	GetDividendsBySymbol(ctx context.Context, symbol string) ([]dbModel.Dividend, error)
	GetDividendsByYear(ctx context.Context, year int) ([]dbModel.Dividend, error)
	GetNetDividendTotal(ctx context.Context) (decimal.Decimal, error)
}

type Cache interface {
	GetSummary(ctx context.Context) (model.PortfolioSummary, error)
	SetSummary(ctx context.Context, summary model.PortfolioSummary) error
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	SetHoldings(ctx context.Context, holdings []model.Holding) error
	FlushReports(ctx context.Context) error
}

type QuoteApi interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]quoteModel.Quote, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, export model.PortfolioExport) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

type PortfolioService struct {
	repo            Repository
	cache           Cache
	quoteApi        QuoteApi
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage
	locks           *symbolLocks
}

// New wires the service. cloudStorage may be nil when report uploads are not
// configured.
func New(repo Repository, cache Cache, quoteApi QuoteApi, reportGenerator ReportGenerator, cloudStorage CloudStorage) *PortfolioService {
	return &PortfolioService{
		repo:            repo,
		cache:           cache,
		quoteApi:        quoteApi,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
		locks:           newSymbolLocks(),
	}
}

func (s *PortfolioService) CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.CreateStock"

	slog.Debug("CreateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	defer func() {
		slog.Debug("CreateStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	}()

	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	if stock.Symbol == "" || stock.Name == "" {
		return model.Stock{}, service.ErrInvalidAmount
	}
	if stock.Type == "" {
		stock.Type = model.StockTypeEquity
	}

	err := s.repo.InsertStock(ctx, dbModel.Stock{
		Symbol:   stock.Symbol,
		Name:     stock.Name,
		Type:     stock.Type,
		Market:   stock.Market,
		Industry: stock.Industry,
		IsActive: stock.IsActive,
		Notes:    stock.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return model.Stock{}, service.ErrAlreadyExists
		}
		slog.Error("got error from repo.InsertStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	created, err := s.repo.GetStock(ctx, stock.Symbol)
	if err != nil {
		slog.Error("got error from repo.GetStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(created), nil
}

func (s *PortfolioService) GetStock(ctx context.Context, symbol string) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStock"

	stock, err := s.repo.GetStock(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Stock{}, service.ErrNotFound
		}
		slog.Error("got error from repo.GetStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(stock), nil
}

func (s *PortfolioService) GetStocks(ctx context.Context) ([]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStocks"

	stocks, err := s.repo.GetStocks(ctx)
	if err != nil {
		slog.Error("got error from repo.GetStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertStocks(stocks), nil
}

func (s *PortfolioService) GetStocksByType(ctx context.Context, stockType string) ([]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetStocksByType"

	stocks, err := s.repo.GetStocksByType(ctx, stockType)
	if err != nil {
		slog.Error("got error from repo.GetStocksByType", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertStocks(stocks), nil
}

func (s *PortfolioService) SearchStocks(ctx context.Context, keyword string) ([]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.SearchStocks"

	stocks, err := s.repo.SearchStocks(ctx, keyword)
	if err != nil {
		slog.Error("got error from repo.SearchStocks", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return dbConverter.ConvertStocks(stocks), nil
}

// UpdateStock changes descriptive fields only; symbol identity is immutable
// once transactions reference it.
func (s *PortfolioService) UpdateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.UpdateStock"

	slog.Debug("UpdateStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	defer func() {
		slog.Debug("UpdateStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", stock.Symbol))
	}()

	if stock.Name == "" {
		return model.Stock{}, service.ErrInvalidAmount
	}
	if stock.Type == "" {
		stock.Type = model.StockTypeEquity
	}

	err := s.repo.UpdateStock(ctx, dbModel.Stock{
		Symbol:   stock.Symbol,
		Name:     stock.Name,
		Type:     stock.Type,
		Market:   stock.Market,
		Industry: stock.Industry,
		IsActive: stock.IsActive,
		Notes:    stock.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Stock{}, service.ErrNotFound
		}
		slog.Error("got error from repo.UpdateStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	updated, err := s.repo.GetStock(ctx, stock.Symbol)
	if err != nil {
		slog.Error("got error from repo.GetStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	return dbConverter.ConvertStock(updated), nil
}

// DeleteStock removes the stock and all dependent records (cascade), so no
// orphaned transaction, holding or dividend survives.
func (s *PortfolioService) DeleteStock(ctx context.Context, symbol string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.DeleteStock"

	slog.Debug("DeleteStock start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("DeleteStock finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	unlock := s.locks.lock(symbol)
	defer unlock()

	err := s.repo.DeleteStock(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrNotFound
		}
		slog.Error("got error from repo.DeleteStock", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	if err := s.cache.FlushReports(ctx); err != nil {
		slog.Warn("can't flush reports cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	return nil
}
