// Package dbConverter maps database rows to domain models.
package dbConverter

import (
	"github.com/anitachen83-jpg/portfolio-management/internal/accounting"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
)

func ConvertStock(s dbModel.Stock) model.Stock {
	return model.Stock{
		Symbol:    s.Symbol,
		Name:      s.Name,
		Type:      s.Type,
		Market:    s.Market,
		Industry:  s.Industry,
		IsActive:  s.IsActive,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func ConvertStocks(stocks []dbModel.Stock) []model.Stock {
	res := make([]model.Stock, 0, len(stocks))
	for _, s := range stocks {
		res = append(res, ConvertStock(s))
	}
	return res
}

func ConvertTransaction(t dbModel.Transaction) model.Transaction {
	return model.Transaction{
		ID:          t.TransactionID,
		Symbol:      t.Symbol,
		Side:        accounting.Side(t.Side),
		Date:        t.TradeDate,
		Quantity:    t.Quantity,
		Price:       t.Price,
		Fee:         t.Fee,
		Tax:         t.Tax,
		TotalAmount: t.TotalAmount,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
}

func ConvertTransactions(txs []dbModel.Transaction) []model.Transaction {
	res := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		res = append(res, ConvertTransaction(t))
	}
	return res
}

func ConvertHolding(h dbModel.Holding) model.Holding {
	return model.Holding{
		Symbol:              h.Symbol,
		Quantity:            h.Quantity,
		AverageCost:         h.AverageCost,
		TotalCost:           h.TotalCost,
		RealizedPL:          h.RealizedPL,
		CurrentPrice:        h.CurrentPrice,
		MarketValue:         h.MarketValue,
		UnrealizedPL:        h.UnrealizedPL,
		UnrealizedPLPercent: h.UnrealizedPLPercent,
		UpdatedAt:           h.UpdatedAt,
	}
}

func ConvertHoldings(holdings []dbModel.Holding) []model.Holding {
	res := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		res = append(res, ConvertHolding(h))
	}
	return res
}

func ConvertDividend(d dbModel.Dividend) model.Dividend {
	return model.Dividend{
		ID:               d.DividendID,
		Symbol:           d.Symbol,
		ExDividendDate:   d.ExDividendDate,
		PaymentDate:      d.PaymentDate,
		DividendPerShare: d.DividendPerShare,
		Quantity:         d.Quantity,
		TotalDividend:    d.TotalDividend,
		Tax:              d.Tax,
		NetDividend:      d.NetDividend,
		DividendType:     d.DividendType,
		Notes:            d.Notes,
		CreatedAt:        d.CreatedAt,
	}
}

func ConvertDividends(dividends []dbModel.Dividend) []model.Dividend {
	res := make([]model.Dividend, 0, len(dividends))
	for _, d := range dividends {
		res = append(res, ConvertDividend(d))
	}
	return res
}

func ConvertRealizedEvent(e dbModel.RealizedEvent) model.RealizedEntry {
	return model.RealizedEntry{
		Symbol:       e.Symbol,
		Date:         e.TradeDate,
		Quantity:     e.Quantity,
		Proceeds:     e.Proceeds,
		CostOfSold:   e.CostOfSold,
		RealizedGain: e.RealizedGain,
	}
}

func ConvertRealizedEvents(events []dbModel.RealizedEvent) []model.RealizedEntry {
	res := make([]model.RealizedEntry, 0, len(events))
	for _, e := range events {
		res = append(res, ConvertRealizedEvent(e))
	}
	return res
}
