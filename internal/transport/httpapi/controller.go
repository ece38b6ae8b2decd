package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/shopspring/decimal"
)

type PortfolioService interface {
	CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error)
	GetStock(ctx context.Context, symbol string) (model.Stock, error)
	GetStocks(ctx context.Context) ([]model.Stock, error)
	GetStocksByType(ctx context.Context, stockType string) ([]model.Stock, error)
	SearchStocks(ctx context.Context, keyword string) ([]model.Stock, error)
	UpdateStock(ctx context.Context, stock model.Stock) (model.Stock, error)
	DeleteStock(ctx context.Context, symbol string) error

	RecordBuy(ctx context.Context, symbol string, date time.Time, quantity, price, fee decimal.Decimal, notes *string) (model.Transaction, error)
	RecordSell(ctx context.Context, symbol string, date time.Time, quantity, price, fee, tax decimal.Decimal, notes *string) (model.Transaction, error)
	GetTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionsBySymbol(ctx context.Context, symbol string) ([]model.Transaction, error)

	GetHolding(ctx context.Context, symbol string) (model.Holding, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
	RecalculateAll(ctx context.Context) (model.RecalcResult, error)
	SetCurrentPrice(ctx context.Context, symbol string, price decimal.Decimal) error

	CreateDividend(ctx context.Context, dividend model.Dividend) (model.Dividend, error)
	GetDividends(ctx context.Context) ([]model.Dividend, error)
	GetDividendsBySymbol(ctx context.Context, symbol string) ([]model.Dividend, error)
	GetDividendsByYear(ctx context.Context, year int) ([]model.Dividend, error)

	GetSummary(ctx context.Context) (model.PortfolioSummary, error)
	GetRealizedPL(ctx context.Context, filter model.RealizedPLFilter) (model.RealizedPLReport, error)
	GetPerformance(ctx context.Context) (model.PerformanceReport, error)
	ExportReport(ctx context.Context, upload bool) (fileBytes []byte, filename string, downloadLink string, err error)
}

type Controller struct {
	portfolioService PortfolioService
}

func NewController(portfolioService PortfolioService) *Controller {
	return &Controller{portfolioService: portfolioService}
}

// --- stocks ---

func (ctrl *Controller) ListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := ctrl.portfolioService.GetStocks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

func (ctrl *Controller) GetStock(w http.ResponseWriter, r *http.Request) {
	stock, err := ctrl.portfolioService.GetStock(r.Context(), r.PathValue("symbol"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (ctrl *Controller) ListStocksByType(w http.ResponseWriter, r *http.Request) {
	stocks, err := ctrl.portfolioService.GetStocksByType(r.Context(), r.PathValue("type"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

func (ctrl *Controller) SearchStocks(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		respondBadRequest(w, "keyword is required")
		return
	}

	stocks, err := ctrl.portfolioService.SearchStocks(r.Context(), keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stocks)
}

func (ctrl *Controller) CreateStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	stock, err := ctrl.portfolioService.CreateStock(r.Context(), req.toModel(""))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, stock)
}

func (ctrl *Controller) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	stock, err := ctrl.portfolioService.UpdateStock(r.Context(), req.toModel(r.PathValue("symbol")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (ctrl *Controller) DeleteStock(w http.ResponseWriter, r *http.Request) {
	if err := ctrl.portfolioService.DeleteStock(r.Context(), r.PathValue("symbol")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// --- transactions ---

func (ctrl *Controller) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := ctrl.portfolioService.GetTransactions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (ctrl *Controller) ListTransactionsBySymbol(w http.ResponseWriter, r *http.Request) {
	txs, err := ctrl.portfolioService.GetTransactionsBySymbol(r.Context(), r.PathValue("symbol"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

func (ctrl *Controller) RecordBuy(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx, err := ctrl.portfolioService.RecordBuy(r.Context(), req.Symbol, date, req.Quantity, req.Price, req.Fee, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (ctrl *Controller) RecordSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondBadRequest(w, "invalid date, expected YYYY-MM-DD")
		return
	}

	tx, err := ctrl.portfolioService.RecordSell(r.Context(), req.Symbol, date, req.Quantity, req.Price, req.Fee, req.Tax, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// --- holdings ---

func (ctrl *Controller) ListHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := ctrl.portfolioService.GetHoldings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, holdings)
}

func (ctrl *Controller) GetHolding(w http.ResponseWriter, r *http.Request) {
	holding, err := ctrl.portfolioService.GetHolding(r.Context(), r.PathValue("symbol"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, holding)
}

func (ctrl *Controller) RecalculateHoldings(w http.ResponseWriter, r *http.Request) {
	result, err := ctrl.portfolioService.RecalculateAll(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (ctrl *Controller) SetHoldingPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	if err := ctrl.portfolioService.SetCurrentPrice(r.Context(), r.PathValue("symbol"), req.Price); err != nil {
		respondError(w, err)
		return
	}

	holding, err := ctrl.portfolioService.GetHolding(r.Context(), r.PathValue("symbol"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, holding)
}

// --- dividends ---

func (ctrl *Controller) ListDividends(w http.ResponseWriter, r *http.Request) {
	dividends, err := ctrl.portfolioService.GetDividends(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dividends)
}

func (ctrl *Controller) ListDividendsBySymbol(w http.ResponseWriter, r *http.Request) {
	dividends, err := ctrl.portfolioService.GetDividendsBySymbol(r.Context(), r.PathValue("symbol"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dividends)
}

func (ctrl *Controller) ListDividendsByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		respondBadRequest(w, "invalid year")
		return
	}

	dividends, err := ctrl.portfolioService.GetDividendsByYear(r.Context(), year)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dividends)
}

func (ctrl *Controller) CreateDividend(w http.ResponseWriter, r *http.Request) {
	var req dividendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	exDate, err := parseDate(req.ExDividendDate)
	if err != nil {
		respondBadRequest(w, "invalid exDividendDate, expected YYYY-MM-DD")
		return
	}

	paymentDate, err := parseOptionalDate(req.PaymentDate)
	if err != nil {
		respondBadRequest(w, "invalid paymentDate, expected YYYY-MM-DD")
		return
	}

	dividend, err := ctrl.portfolioService.CreateDividend(r.Context(), model.Dividend{
		Symbol:           req.Symbol,
		ExDividendDate:   exDate,
		PaymentDate:      paymentDate,
		DividendPerShare: req.DividendPerShare,
		Quantity:         req.Quantity,
		Tax:              req.Tax,
		DividendType:     req.DividendType,
		Notes:            req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dividend)
}

// --- reports ---

func (ctrl *Controller) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ctrl.portfolioService.GetSummary(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (ctrl *Controller) GetRealizedPL(w http.ResponseWriter, r *http.Request) {
	filter := model.RealizedPLFilter{Symbol: r.URL.Query().Get("symbol")}

	if v := r.URL.Query().Get("from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			respondBadRequest(w, "invalid from, expected YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			respondBadRequest(w, "invalid to, expected YYYY-MM-DD")
			return
		}
		filter.To = &to
	}

	report, err := ctrl.portfolioService.GetRealizedPL(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (ctrl *Controller) GetPerformance(w http.ResponseWriter, r *http.Request) {
	report, err := ctrl.portfolioService.GetPerformance(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (ctrl *Controller) ExportReport(w http.ResponseWriter, r *http.Request) {
	upload := r.URL.Query().Get("upload") == "true"

	fileBytes, filename, downloadLink, err := ctrl.portfolioService.ExportReport(r.Context(), upload)
	if err != nil {
		respondError(w, err)
		return
	}

	if upload {
		respondJSON(w, http.StatusOK, exportResponse{Filename: filename, DownloadLink: downloadLink})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fileBytes)
}
