package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
)

func (r *Postgres) InsertStock(ctx context.Context, stock dbModel.Stock) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO stocks(symbol, name, type, market, industry, is_active, notes)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		`

	slog.Debug("InsertStock start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertStock failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertStock completed", slog.String("rqID", rqID))
		}
	}()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query,
		stock.Symbol, stock.Name, stock.Type, stock.Market, stock.Industry, stock.IsActive, stock.Notes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return repository.ErrAlreadyExists
			}
		}
		return err
	}

	return nil
}

func (r *Postgres) GetStock(ctx context.Context, symbol string) (stock dbModel.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		SELECT symbol, name, type, market, industry, is_active, notes, dt_create, dt_update
		FROM stocks
		WHERE symbol = $1
		`

	slog.Debug("GetStock start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetStock failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetStock completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, symbol).StructScan(&stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbModel.Stock{}, repository.ErrNotFound
		}
		return dbModel.Stock{}, err
	}

	return stock, nil
}

func (r *Postgres) getStocks(ctx context.Context, query string, args ...any) (stocks []dbModel.Stock, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("getStocks start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("getStocks failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("getStocks completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var stock dbModel.Stock
		err = rows.StructScan(&stock)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	return stocks, nil
}

func (r *Postgres) GetStocks(ctx context.Context) ([]dbModel.Stock, error) {
	query := `
		SELECT symbol, name, type, market, industry, is_active, notes, dt_create, dt_update
		FROM stocks
		ORDER BY symbol
		`
	return r.getStocks(ctx, query)
}

func (r *Postgres) GetStocksByType(ctx context.Context, stockType string) ([]dbModel.Stock, error) {
	query := `
		SELECT symbol, name, type, market, industry, is_active, notes, dt_create, dt_update
		FROM stocks
		WHERE type = $1
		ORDER BY symbol
		`
	return r.getStocks(ctx, query, stockType)
}

func (r *Postgres) SearchStocks(ctx context.Context, keyword string) ([]dbModel.Stock, error) {
	query := `
		SELECT symbol, name, type, market, industry, is_active, notes, dt_create, dt_update
		FROM stocks
		WHERE symbol ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY symbol
		`
	return r.getStocks(ctx, query, keyword)
}

func (r *Postgres) UpdateStock(ctx context.Context, stock dbModel.Stock) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		UPDATE stocks
		SET name = $2, type = $3, market = $4, industry = $5, is_active = $6, notes = $7, dt_update = $8
		WHERE symbol = $1
		`

	slog.Debug("UpdateStock start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("UpdateStock failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("UpdateStock completed", slog.String("rqID", rqID))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query,
		stock.Symbol, stock.Name, stock.Type, stock.Market, stock.Industry, stock.IsActive, stock.Notes, time.Now(),
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteStock removes the stock; transactions, holdings, realized events and
// dividends go with it through ON DELETE CASCADE.
func (r *Postgres) DeleteStock(ctx context.Context, symbol string) (err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `DELETE FROM stocks WHERE symbol = $1`

	slog.Debug("DeleteStock start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("DeleteStock failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("DeleteStock completed", slog.String("rqID", rqID))
		}
	}()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, symbol)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
