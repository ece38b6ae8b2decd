package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anitachen83-jpg/portfolio-management/data/repository"
	"github.com/anitachen83-jpg/portfolio-management/internal/model/dbModel"
	"github.com/anitachen83-jpg/portfolio-management/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func (r *Postgres) InsertDividend(ctx context.Context, dividend dbModel.Dividend) (dividendID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO dividends(symbol, ex_dividend_date, payment_date, dividend_per_share,
			quantity, total_dividend, tax, net_dividend, dividend_type, notes)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING dividend_id
		`

	slog.Debug("InsertDividend start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertDividend failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertDividend completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query,
		dividend.Symbol, dividend.ExDividendDate, dividend.PaymentDate, dividend.DividendPerShare,
		dividend.Quantity, dividend.TotalDividend, dividend.Tax, dividend.NetDividend, dividend.DividendType, dividend.Notes,
	).Scan(&dividendID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // foreign_key_violation
				return 0, repository.ErrNotFound
			}
		}
		return 0, err
	}

	return dividendID, nil
}

func (r *Postgres) getDividends(ctx context.Context, query string, args ...any) (dividends []dbModel.Dividend, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("getDividends start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("getDividends failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("getDividends completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var dividend dbModel.Dividend
		err = rows.StructScan(&dividend)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, dividend)
	}

	return dividends, nil
}

func (r *Postgres) GetDividends(ctx context.Context) ([]dbModel.Dividend, error) {
	query := `
		SELECT dividend_id, symbol, ex_dividend_date, payment_date, dividend_per_share,
			quantity, total_dividend, tax, net_dividend, dividend_type, notes, dt_create
		FROM dividends
		ORDER BY ex_dividend_date, dividend_id
		`
	return r.getDividends(ctx, query)
}

func (r *Postgres) GetDividendsBySymbol(ctx context.Context, symbol string) ([]dbModel.Dividend, error) {
	query := `
		SELECT dividend_id, symbol, ex_dividend_date, payment_date, dividend_per_share,
			quantity, total_dividend, tax, net_dividend, dividend_type, notes, dt_create
		FROM dividends
		WHERE symbol = $1
		ORDER BY ex_dividend_date, dividend_id
		`
	return r.getDividends(ctx, query, symbol)
}

// GetDividendsByYear matches on the ex-dividend date's calendar year.
func (r *Postgres) GetDividendsByYear(ctx context.Context, year int) ([]dbModel.Dividend, error) {
	query := `
		SELECT dividend_id, symbol, ex_dividend_date, payment_date, dividend_per_share,
			quantity, total_dividend, tax, net_dividend, dividend_type, notes, dt_create
		FROM dividends
		WHERE EXTRACT(YEAR FROM ex_dividend_date) = $1
		ORDER BY ex_dividend_date, dividend_id
		`
	return r.getDividends(ctx, query, year)
}

func (r *Postgres) GetNetDividendTotal(ctx context.Context) (total decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT COALESCE(SUM(net_dividend), 0) FROM dividends`

	slog.Debug("GetNetDividendTotal start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetNetDividendTotal failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetNetDividendTotal completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
