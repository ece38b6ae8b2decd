package httpapi

import (
	"time"

	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type stockRequest struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Market   *string `json:"market"`
	Industry *string `json:"industry"`
	IsActive *bool   `json:"isActive"`
	Notes    *string `json:"notes"`
}

func (r stockRequest) toModel(symbol string) model.Stock {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	if symbol == "" {
		symbol = r.Symbol
	}
	return model.Stock{
		Symbol:   symbol,
		Name:     r.Name,
		Type:     r.Type,
		Market:   r.Market,
		Industry: r.Industry,
		IsActive: active,
		Notes:    r.Notes,
	}
}

type buyRequest struct {
	Symbol   string          `json:"symbol"`
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Notes    *string         `json:"notes"`
}

type sellRequest struct {
	Symbol   string          `json:"symbol"`
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Fee      decimal.Decimal `json:"fee"`
	Tax      decimal.Decimal `json:"tax"`
	Notes    *string         `json:"notes"`
}

type dividendRequest struct {
	Symbol           string          `json:"symbol"`
	ExDividendDate   string          `json:"exDividendDate"`
	PaymentDate      *string         `json:"paymentDate"`
	DividendPerShare decimal.Decimal `json:"dividendPerShare"`
	Quantity         decimal.Decimal `json:"quantity"`
	Tax              decimal.Decimal `json:"tax"`
	DividendType     *string         `json:"dividendType"`
	Notes            *string         `json:"notes"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type exportResponse struct {
	Filename     string `json:"filename"`
	DownloadLink string `json:"downloadLink"`
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
