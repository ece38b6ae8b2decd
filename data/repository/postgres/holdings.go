package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/utils"
)

// UpsertHolding replaces the symbol's holding row wholesale. Partial updates
// are deliberately not supported: the recalculator is the only writer.
func (r *Postgres) UpsertHolding(ctx context.Context, holding dbModel.Holding) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO holdings(symbol, quantity, average_cost, total_cost, realized_pl,
			current_price, market_value, unrealized_pl, unrealized_pl_percent, dt_update)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_cost = EXCLUDED.average_cost,
			total_cost = EXCLUDED.total_cost,
			realized_pl = EXCLUDED.realized_pl,
			current_price = EXCLUDED.current_price,
			market_value = EXCLUDED.market_value,
			unrealized_pl = EXCLUDED.unrealized_pl,
			unrealized_pl_percent = EXCLUDED.unrealized_pl_percent,
			dt_update = EXCLUDED.dt_update
		`

	slog.Debug("UpsertHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpsertHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpsertHolding completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query,
		holding.Symbol, holding.Quantity, holding.AverageCost, holding.TotalCost, holding.RealizedPL,
		holding.CurrentPrice, holding.MarketValue, holding.UnrealizedPL, holding.UnrealizedPLPercent, holding.UpdatedAt,
	)
	return err
}

func (r *Postgres) GetHolding(ctx context.Context, symbol string) (holding dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT symbol, quantity, average_cost, total_cost, realized_pl,
			current_price, market_value, unrealized_pl, unrealized_pl_percent, dt_update
		FROM holdings
		WHERE symbol = $1
		`

	slog.Debug("GetHolding start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHolding failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHolding completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, symbol).StructScan(&holding)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Holding{}, repository.ErrNotFound
		}
		return dbModel.Holding{}, err
	}

	return holding, nil
}

func (r *Postgres) GetHoldings(ctx context.Context) (holdings []dbModel.Holding, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT symbol, quantity, average_cost, total_cost, realized_pl,
			current_price, market_value, unrealized_pl, unrealized_pl_percent, dt_update
		FROM holdings
		ORDER BY symbol
		`

	slog.Debug("GetHoldings start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetHoldings failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetHoldings completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var holding dbModel.Holding
		err = rows.StructScan(&holding)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, holding)
	}

	return holdings, nil
}

// ReplaceRealizedEvents swaps the symbol's realized event history for the one
// produced by the latest recalculation.
func (r *Postgres) ReplaceRealizedEvents(ctx context.Context, symbol string, events []dbModel.RealizedEvent) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("ReplaceRealizedEvents start", slog.String("rqID", rqID), slog.String("symbol", symbol))
	defer func() {
		if err != nil {
			slog.Error("ReplaceRealizedEvents failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("ReplaceRealizedEvents completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, `DELETE FROM realized_events WHERE symbol = $1`, symbol)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	sb := strings.Builder{}
	args := make([]any, 0, len(events)*6)

	sb.WriteString(`INSERT INTO realized_events (symbol, trade_date, quantity, proceeds, cost_of_sold, realized_gain) VALUES `)

	for i, event := range events {
		args = append(args, event.Symbol, event.TradeDate, event.Quantity, event.Proceeds, event.CostOfSold, event.RealizedGain)

		start := i*6 + 1
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			start, start+1, start+2, start+3, start+4, start+5,
		))

		if i < len(events)-1 {
			sb.WriteString(",")
		}
	}

	_, err = r.txOrDb(ctx).ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *Postgres) GetRealizedEvents(ctx context.Context, symbol string, from, to *string) (events []dbModel.RealizedEvent, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT event_id, symbol, trade_date, quantity, proceeds, cost_of_sold, realized_gain
		FROM realized_events
		WHERE 1=1`)

	args := make([]any, 0, 3)
	if symbol != "" {
		args = append(args, symbol)
		sb.WriteString(fmt.Sprintf(" AND symbol = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		sb.WriteString(fmt.Sprintf(" AND trade_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(fmt.Sprintf(" AND trade_date <= $%d", len(args)))
	}
	sb.WriteString(" ORDER BY trade_date, event_id")

	query := sb.String()

	slog.Debug("GetRealizedEvents start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetRealizedEvents failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetRealizedEvents completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var event dbModel.RealizedEvent
		err = rows.StructScan(&event)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
