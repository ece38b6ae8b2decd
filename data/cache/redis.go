package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/anitachen83-jpg/portfolio-management/config"
	"github.com/anitachen83-jpg/portfolio-management/internal/model"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/redis/go-redis/v9"
)

const (
	summaryKey  = "reports:summary"
	holdingsKey = "reports:holdings"
)

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetSummary(ctx context.Context, summary model.PortfolioSummary) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetSummary start", slog.String("rqID", rqID))

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		slog.Error("can't marshall summary in SetSummary", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	_, err = r.redis.Set(ctx, summaryKey, summaryJson, r.cfg.Cache.ReportsExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", summaryKey))
		return err
	}

	slog.Debug("SetSummary completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSummary start", slog.String("rqID", rqID))

	res, err := r.redis.Get(ctx, summaryKey).Result()
	if err != nil {
		return model.PortfolioSummary{}, err
	}

	summary := model.PortfolioSummary{}
	err = json.Unmarshal([]byte(res), &summary)
	if err != nil {
		slog.Error(
			"can't unmarshall summary in GetSummary",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.PortfolioSummary{}, err
	}

	slog.Debug("GetSummary completed", slog.String("rqID", rqID))

	return summary, nil
}

func (r *RedisCache) SetHoldings(ctx context.Context, holdings []model.Holding) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetHoldings start", slog.String("rqID", rqID))

	holdingsJson, err := json.Marshal(holdings)
	if err != nil {
		slog.Error("can't marshall holdings in SetHoldings", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	_, err = r.redis.Set(ctx, holdingsKey, holdingsJson, r.cfg.Cache.ReportsExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("key", holdingsKey))
		return err
	}

	slog.Debug("SetHoldings completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetHoldings start", slog.String("rqID", rqID))

	res, err := r.redis.Get(ctx, holdingsKey).Result()
	if err != nil {
		return nil, err
	}

	var holdings []model.Holding
	err = json.Unmarshal([]byte(res), &holdings)
	if err != nil {
		slog.Error(
			"can't unmarshall holdings in GetHoldings",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return nil, err
	}

	slog.Debug("GetHoldings completed", slog.String("rqID", rqID))

	return holdings, nil
}

// FlushReports drops the cached summary and holdings list. Called after every
// write path that can change a holding row.
func (r *RedisCache) FlushReports(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("FlushReports start", slog.String("rqID", rqID))

	_, err := r.redis.Del(ctx, summaryKey, holdingsKey).Result()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("FlushReports completed", slog.String("rqID", rqID))

	return nil
}
