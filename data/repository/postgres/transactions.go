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

func (r *Postgres) InsertTransaction(ctx context.Context, tx dbModel.Transaction) (transactionID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `
		INSERT INTO transactions(symbol, side, trade_date, quantity, price, fee, tax, total_amount, notes)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING transaction_id
		`

	slog.Debug("InsertTransaction start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("InsertTransaction failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("InsertTransaction completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query,
		tx.Symbol, tx.Side, tx.TradeDate, tx.Quantity, tx.Price, tx.Fee, tx.Tax, tx.TotalAmount, tx.Notes,
	).Scan(&transactionID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23503" { // foreign_key_violation
				return 0, repository.ErrNotFound
			}
		}
		return 0, err
	}

	return transactionID, nil
}

func (r *Postgres) getTransactions(ctx context.Context, query string, args ...any) (txs []dbModel.Transaction, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("getTransactions start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("getTransactions failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("getTransactions completed", slog.String("rqID", rqID))
		}
	}()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var tx dbModel.Transaction
		err = rows.StructScan(&tx)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func (r *Postgres) GetTransactions(ctx context.Context) ([]dbModel.Transaction, error) {
	query := `
		SELECT transaction_id, symbol, side, trade_date, quantity, price, fee, tax, total_amount, notes, dt_create
		FROM transactions
		ORDER BY trade_date, transaction_id
		`
	return r.getTransactions(ctx, query)
}

// GetTransactionsBySymbol returns the symbol's ledger in replay order:
// ascending by trade date, ties broken by insertion order.
func (r *Postgres) GetTransactionsBySymbol(ctx context.Context, symbol string) ([]dbModel.Transaction, error) {
	query := `
		SELECT transaction_id, symbol, side, trade_date, quantity, price, fee, tax, total_amount, notes, dt_create
		FROM transactions
		WHERE symbol = $1
		ORDER BY trade_date, transaction_id
		`
	return r.getTransactions(ctx, query, symbol)
}

func (r *Postgres) GetTransactionSymbols(ctx context.Context) (symbols []string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT DISTINCT symbol FROM transactions ORDER BY symbol`

	slog.Debug("GetTransactionSymbols start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetTransactionSymbols failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetTransactionSymbols completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).SelectContext(ctx, &symbols, query)
	if err != nil {
		return nil, err
	}

	return symbols, nil
}

// GetBuyCostTotal returns the total ever invested: sum of total_amount over
// all buy transactions.
func (r *Postgres) GetBuyCostTotal(ctx context.Context) (total decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM transactions WHERE side = 'buy'`

	slog.Debug("GetBuyCostTotal start", slog.String("rqID", rqID), slog.String("query", query))
	defer func() {
		if err != nil {
			slog.Error("GetBuyCostTotal failed", slog.String("rqID", rqID), slog.String("err", err.Error()))
		} else {
			slog.Debug("GetBuyCostTotal completed", slog.String("rqID", rqID))
		}
	}()

	err = r.txOrDb(ctx).QueryRowContext(ctx, query).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
