package quoteApi

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/config"
	"github.com/anitachen83-jpg/portfolio-management/internal/externalApi"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/quoteModel"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// QuoteApi fetches delayed market quotes from the TWSE mis endpoint. One call
// per batch of symbols; this is a price supplement, not a streaming feed.
type QuoteApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *QuoteApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.QuoteApi.Url)
	return &QuoteApi{client: client}
}

func (a *QuoteApi) GetQuotes(ctx context.Context, symbols []string) (map[string]quoteModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := "/stock/api/getStockInfo.jsp"

	channels := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		channels = append(channels, "tse_"+symbol+".tw")
	}

	params := map[string]string{
		"ex_ch": strings.Join(channels, "|"),
		"json":  "1",
		"delay": "0",
		"_":     strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	slog.Debug("start QuoteApi.GetQuotes request", slog.String("rqID", rqID), slog.Int("symbols", len(symbols)))

	resp, err := a.client.R().
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		SetContext(ctx).
		Get(url)

	if err != nil {
		slog.Error("error while dialing QuoteApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	rawQuotes := quoteModel.RawQuotes{}
	err = json.Unmarshal(resp.Body(), &rawQuotes)
	if err != nil {
		slog.Error("can't unmarshall response into quoteModel.RawQuotes", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return nil, err
	}

	quotes := a.parseRawQuotes(ctx, rawQuotes)
	if len(quotes) == 0 {
		return nil, externalApi.ErrNotFound
	}

	slog.Debug("QuoteApi.GetQuotes request complete", slog.String("rqID", rqID), slog.Int("quotes", len(quotes)))

	return quotes, nil
}

func (a *QuoteApi) parseRawQuotes(ctx context.Context, raw quoteModel.RawQuotes) map[string]quoteModel.Quote {
	rqID := utils.GetRequestIDFromCtx(ctx)
	quotes := make(map[string]quoteModel.Quote, len(raw.MsgArray))

	for _, msg := range raw.MsgArray {
		priceStr := msg.LastPrice
		if priceStr == "" || priceStr == "-" {
			// no trade yet, fall back to best bid
			priceStr = msg.BestBid
			if i := strings.IndexByte(priceStr, '_'); i > 0 {
				priceStr = priceStr[:i]
			}
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			slog.Warn("can't parse quote price",
				slog.String("rqID", rqID),
				slog.String("symbol", msg.Symbol),
				slog.String("price", priceStr),
			)
			continue
		}

		asOf := time.Now()
		if ms, err := strconv.ParseInt(msg.Timestamp, 10, 64); err == nil {
			asOf = time.UnixMilli(ms)
		}

		quotes[msg.Symbol] = quoteModel.Quote{
			Symbol: msg.Symbol,
			Name:   msg.Name,
			Price:  price,
			AsOf:   asOf,
		}
	}

	return quotes
}
