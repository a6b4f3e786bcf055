package psql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/peter-kozarec/zenith/pkg/common"
)

func Connect(ctx context.Context, host, port, user, pass, db string) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, db)
	dbConn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := dbConn.PingContext(ctx); err != nil {
		return nil, err
	}

	return dbConn, nil
}

// InsertTrade archives one settled trade. The trace id makes the insert
// idempotent; replays of an already archived fill are dropped by the
// conflict clause.
func InsertTrade(ctx context.Context, db *sql.DB, appId, accountId int64, trade common.Trade) error {
	query := `
	INSERT INTO sim_trades (
		trade_tid,
		app_id,
		account_id,
		symbol,
		side,
		order_type,
		quantity,
		price,
		tag,
		executed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (trade_tid, app_id, account_id) DO NOTHING;
	`

	quantity, _ := trade.Quantity.Float64()
	price, _ := trade.Price.Float64()

	_, err := db.ExecContext(
		ctx,
		query,
		int64(trade.TraceID),
		appId,
		accountId,
		trade.Order.Symbol,
		trade.Order.Side.String(),
		trade.Order.Type.String(),
		quantity,
		price,
		trade.Order.Tag,
		trade.TimeStamp,
	)

	return err
}

// InsertClosedPosition archives one realized close, full or partial.
func InsertClosedPosition(ctx context.Context, db *sql.DB, appId, accountId int64, closed common.PositionClosed) error {
	query := `
	INSERT INTO sim_position_closes (
		close_tid,
		app_id,
		account_id,
		symbol,
		side,
		closed_quantity,
		avg_entry_price,
		close_price,
		realized_pnl,
		margin_released,
		opened_at,
		closed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (close_tid, app_id, account_id) DO NOTHING;
	`

	closedQty, _ := closed.ClosedQuantity.Float64()
	avgEntry, _ := closed.Position.AvgEntryPrice.Float64()
	closePrice, _ := closed.ClosePrice.Float64()
	realizedPnL, _ := closed.RealizedPnL.Float64()
	marginReleased, _ := closed.MarginReleased.Float64()

	_, err := db.ExecContext(
		ctx,
		query,
		int64(closed.TraceID),
		appId,
		accountId,
		closed.Position.Symbol,
		closed.Position.Side.String(),
		closedQty,
		avgEntry,
		closePrice,
		realizedPnL,
		marginReleased,
		closed.Position.OpenTime,
		closed.TimeStamp,
	)

	return err
}
