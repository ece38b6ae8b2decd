package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the REST surface. Every accounting operation maps onto one
// route; the engine itself never sees HTTP.
func NewRouter(ctrl *Controller) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/stocks", ctrl.ListStocks)
	mux.HandleFunc("GET /api/stocks/search", ctrl.SearchStocks)
	mux.HandleFunc("GET /api/stocks/type/{type}", ctrl.ListStocksByType)
	mux.HandleFunc("GET /api/stocks/{symbol}", ctrl.GetStock)
	mux.HandleFunc("POST /api/stocks", ctrl.CreateStock)
	mux.HandleFunc("PUT /api/stocks/{symbol}", ctrl.UpdateStock)
	mux.HandleFunc("DELETE /api/stocks/{symbol}", ctrl.DeleteStock)

	mux.HandleFunc("GET /api/transactions", ctrl.ListTransactions)
	mux.HandleFunc("GET /api/transactions/symbol/{symbol}", ctrl.ListTransactionsBySymbol)
	mux.HandleFunc("POST /api/transactions/buy", ctrl.RecordBuy)
	mux.HandleFunc("POST /api/transactions/sell", ctrl.RecordSell)

	mux.HandleFunc("GET /api/holdings", ctrl.ListHoldings)
	mux.HandleFunc("GET /api/holdings/{symbol}", ctrl.GetHolding)
	mux.HandleFunc("POST /api/holdings/recalculate", ctrl.RecalculateHoldings)
	mux.HandleFunc("PUT /api/holdings/{symbol}/price", ctrl.SetHoldingPrice)

	mux.HandleFunc("GET /api/dividends", ctrl.ListDividends)
	mux.HandleFunc("GET /api/dividends/symbol/{symbol}", ctrl.ListDividendsBySymbol)
	mux.HandleFunc("GET /api/dividends/year/{year}", ctrl.ListDividendsByYear)
	mux.HandleFunc("POST /api/dividends", ctrl.CreateDividend)

	mux.HandleFunc("GET /api/reports/summary", ctrl.GetSummary)
	mux.HandleFunc("GET /api/reports/realized-pl", ctrl.GetRealizedPL)
	mux.HandleFunc("GET /api/reports/performance", ctrl.GetPerformance)
	mux.HandleFunc("GET /api/reports/export", ctrl.ExportReport)

	return WithRequestID(WithObservability(mux, mux))
}
