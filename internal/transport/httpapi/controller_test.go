package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/internal/service"
	"github.com/shopspring/decimal"
)

// stubService returns canned values; individual tests override the function
// fields they exercise.
type stubService struct {
	createStock      func(ctx context.Context, stock model.Stock) (model.Stock, error)
	getStock         func(ctx context.Context, symbol string) (model.Stock, error)
	recordBuy        func(ctx context.Context, symbol string, date time.Time, quantity, price, fee decimal.Decimal, notes *string) (model.Transaction, error)
	recordSell       func(ctx context.Context, symbol string, date time.Time, quantity, price, fee, tax decimal.Decimal, notes *string) (model.Transaction, error)
	getHolding       func(ctx context.Context, symbol string) (model.Holding, error)
	recalculateAll   func(ctx context.Context) (model.RecalcResult, error)
	setCurrentPrice  func(ctx context.Context, symbol string, price decimal.Decimal) error
	getSummary       func(ctx context.Context) (model.PortfolioSummary, error)
	getRealizedPL    func(ctx context.Context, filter model.RealizedPLFilter) (model.RealizedPLReport, error)
	getDividendsYear func(ctx context.Context, year int) ([]model.Dividend, error)
	exportReport     func(ctx context.Context, upload bool) ([]byte, string, string, error)
}

func (s *stubService) CreateStock(ctx context.Context, stock model.Stock) (model.Stock, error) {
	if s.createStock != nil {
		return s.createStock(ctx, stock)
	}
	return stock, nil
}

func (s *stubService) GetStock(ctx context.Context, symbol string) (model.Stock, error) {
	if s.getStock != nil {
		return s.getStock(ctx, symbol)
	}
	return model.Stock{Symbol: symbol}, nil
}

func (s *stubService) GetStocks(context.Context) ([]model.Stock, error) { return nil, nil }

func (s *stubService) GetStocksByType(context.Context, string) ([]model.Stock, error) {
	return nil, nil
}

func (s *stubService) SearchStocks(context.Context, string) ([]model.Stock, error) { return nil, nil }

func (s *stubService) UpdateStock(_ context.Context, stock model.Stock) (model.Stock, error) {
	return stock, nil
}

func (s *stubService) DeleteStock(context.Context, string) error { return nil }

func (s *stubService) RecordBuy(ctx context.Context, symbol string, date time.Time, quantity, price, fee decimal.Decimal, notes *string) (model.Transaction, error) {
	if s.recordBuy != nil {
		return s.recordBuy(ctx, symbol, date, quantity, price, fee, notes)
	}
	return model.Transaction{}, nil
}

func (s *stubService) RecordSell(ctx context.Context, symbol string, date time.Time, quantity, price, fee, tax decimal.Decimal, notes *string) (model.Transaction, error) {
	if s.recordSell != nil {
		return s.recordSell(ctx, symbol, date, quantity, price, fee, tax, notes)
	}
	return model.Transaction{}, nil
}

func (s *stubService) GetTransactions(context.Context) ([]model.Transaction, error) {
	return nil, nil
}

func (s *stubService) GetTransactionsBySymbol(context.Context, string) ([]model.Transaction, error) {
	return nil, nil
}

func (s *stubService) GetHolding(ctx context.Context, symbol string) (model.Holding, error) {
	if s.getHolding != nil {
		return s.getHolding(ctx, symbol)
	}
	return model.Holding{Symbol: symbol}, nil
}

func (s *stubService) GetHoldings(context.Context) ([]model.Holding, error) { return nil, nil }

func (s *stubService) RecalculateAll(ctx context.Context) (model.RecalcResult, error) {
	if s.recalculateAll != nil {
		return s.recalculateAll(ctx)
	}
	return model.RecalcResult{}, nil
}

func (s *stubService) SetCurrentPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	if s.setCurrentPrice != nil {
		return s.setCurrentPrice(ctx, symbol, price)
	}
	return nil
}

func (s *stubService) CreateDividend(_ context.Context, dividend model.Dividend) (model.Dividend, error) {
	return dividend, nil
}

func (s *stubService) GetDividends(context.Context) ([]model.Dividend, error) { return nil, nil }

func (s *stubService) GetDividendsBySymbol(context.Context, string) ([]model.Dividend, error) {
	return nil, nil
}

func (s *stubService) GetDividendsByYear(ctx context.Context, year int) ([]model.Dividend, error) {
	if s.getDividendsYear != nil {
		return s.getDividendsYear(ctx, year)
	}
	return nil, nil
}

func (s *stubService) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	if s.getSummary != nil {
		return s.getSummary(ctx)
	}
	return model.PortfolioSummary{}, nil
}

func (s *stubService) GetRealizedPL(ctx context.Context, filter model.RealizedPLFilter) (model.RealizedPLReport, error) {
	if s.getRealizedPL != nil {
		return s.getRealizedPL(ctx, filter)
	}
	return model.RealizedPLReport{}, nil
}

func (s *stubService) GetPerformance(context.Context) (model.PerformanceReport, error) {
	return model.PerformanceReport{}, nil
}

func (s *stubService) ExportReport(ctx context.Context, upload bool) ([]byte, string, string, error) {
	if s.exportReport != nil {
		return s.exportReport(ctx, upload)
	}
	return []byte("file"), "portfolio.xlsx", "", nil
}

func serveRequest(stub *stubService, method, target, body string) *httptest.ResponseRecorder {
	router := NewRouter(NewController(stub))
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecordBuy_Created(t *testing.T) {
	var gotSymbol string
	var gotQuantity decimal.Decimal
	stub := &stubService{
		recordBuy: func(_ context.Context, symbol string, _ time.Time, quantity, _, _ decimal.Decimal, _ *string) (model.Transaction, error) {
			gotSymbol = symbol
			gotQuantity = quantity
			return model.Transaction{ID: 1, Symbol: symbol, Quantity: quantity}, nil
		},
	}

	rec := serveRequest(stub, http.MethodPost, "/api/transactions/buy",
		`{"symbol":"2330","date":"2024-01-02","quantity":"1000","price":"500","fee":"20"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if gotSymbol != "2330" {
		t.Errorf("symbol = %s, want 2330", gotSymbol)
	}
	if !gotQuantity.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("quantity = %s, want 1000", gotQuantity)
	}
}

func TestRecordBuy_InvalidDate(t *testing.T) {
	rec := serveRequest(&stubService{}, http.MethodPost, "/api/transactions/buy",
		`{"symbol":"2330","date":"02/01/2024","quantity":"10","price":"500"}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecordSell_InsufficientQuantity(t *testing.T) {
	stub := &stubService{
		recordSell: func(context.Context, string, time.Time, decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal, *string) (model.Transaction, error) {
			return model.Transaction{}, service.ErrInsufficientQuantity
		},
	}

	rec := serveRequest(stub, http.MethodPost, "/api/transactions/sell",
		`{"symbol":"2330","date":"2024-01-02","quantity":"10","price":"500"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var resp struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("can't decode response: %v", err)
	}
	if resp.Kind != "insufficient_quantity" {
		t.Errorf("kind = %s, want insufficient_quantity", resp.Kind)
	}
}

func TestGetStock_NotFound(t *testing.T) {
	stub := &stubService{
		getStock: func(context.Context, string) (model.Stock, error) {
			return model.Stock{}, service.ErrNotFound
		},
	}

	rec := serveRequest(stub, http.MethodGet, "/api/stocks/9999", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetStock_PathValue(t *testing.T) {
	var gotSymbol string
	stub := &stubService{
		getStock: func(_ context.Context, symbol string) (model.Stock, error) {
			gotSymbol = symbol
			return model.Stock{Symbol: symbol}, nil
		},
	}

	rec := serveRequest(stub, http.MethodGet, "/api/stocks/2330", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotSymbol != "2330" {
		t.Errorf("symbol = %s, want 2330", gotSymbol)
	}
}

func TestSearchStocks_MissingKeyword(t *testing.T) {
	rec := serveRequest(&stubService{}, http.MethodGet, "/api/stocks/search", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRecalculateHoldings_ReportsFailures(t *testing.T) {
	stub := &stubService{
		recalculateAll: func(context.Context) (model.RecalcResult, error) {
			return model.RecalcResult{Updated: 3, Failed: []string{"2603"}}, nil
		},
	}

	rec := serveRequest(stub, http.MethodPost, "/api/holdings/recalculate", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result model.RecalcResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("can't decode response: %v", err)
	}
	if result.Updated != 3 || len(result.Failed) != 1 || result.Failed[0] != "2603" {
		t.Errorf("result = %+v, want 3 updated and [2603] failed", result)
	}
}

func TestGetRealizedPL_FilterParsing(t *testing.T) {
	var gotFilter model.RealizedPLFilter
	stub := &stubService{
		getRealizedPL: func(_ context.Context, filter model.RealizedPLFilter) (model.RealizedPLReport, error) {
			gotFilter = filter
			return model.RealizedPLReport{}, nil
		},
	}

	rec := serveRequest(stub, http.MethodGet, "/api/reports/realized-pl?symbol=2330&from=2024-01-01&to=2024-06-30", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotFilter.Symbol != "2330" {
		t.Errorf("filter.Symbol = %s, want 2330", gotFilter.Symbol)
	}
	if gotFilter.From == nil || gotFilter.From.Format("2006-01-02") != "2024-01-01" {
		t.Errorf("filter.From = %v, want 2024-01-01", gotFilter.From)
	}
	if gotFilter.To == nil || gotFilter.To.Format("2006-01-02") != "2024-06-30" {
		t.Errorf("filter.To = %v, want 2024-06-30", gotFilter.To)
	}
}

func TestListDividendsByYear_InvalidYear(t *testing.T) {
	rec := serveRequest(&stubService{}, http.MethodGet, "/api/dividends/year/abc", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExportReport_Download(t *testing.T) {
	rec := serveRequest(&stubService{}, http.MethodGet, "/api/reports/export", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "portfolio.xlsx") {
		t.Errorf("Content-Disposition = %q, want filename portfolio.xlsx", got)
	}
}

func TestExportReport_Upload(t *testing.T) {
	stub := &stubService{
		exportReport: func(_ context.Context, upload bool) ([]byte, string, string, error) {
			if !upload {
				t.Error("upload = false, want true")
			}
			return []byte("file"), "portfolio.xlsx", "https://drive.example/abc", nil
		},
	}

	rec := serveRequest(stub, http.MethodGet, "/api/reports/export?upload=true", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp exportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("can't decode response: %v", err)
	}
	if resp.DownloadLink != "https://drive.example/abc" {
		t.Errorf("downloadLink = %s, want https://drive.example/abc", resp.DownloadLink)
	}
}

func TestRequestIDHeader(t *testing.T) {
	rec := serveRequest(&stubService{}, http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}
