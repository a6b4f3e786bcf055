package middleware

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/data/db/psql"
)

// LedgerSink archives settled trades and realized closes to postgres.
// Archive failures are logged and never block dispatch.
type LedgerSink struct {
	db        *sql.DB
	appId     int64
	accountId int64
}

func NewLedgerSink(db *sql.DB, appId, accountId int64) *LedgerSink {
	return &LedgerSink{
		db:        db,
		appId:     appId,
		accountId: accountId,
	}
}

func (l *LedgerSink) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		if err := psql.InsertTrade(ctx, l.db, l.appId, l.accountId, trade); err != nil {
			slog.Warn("unable to archive trade", "error", err)
		}
		handler(ctx, trade)
	}
}

func (l *LedgerSink) WithPositionClose(handler bus.PositionCloseEventHandler) bus.PositionCloseEventHandler {
	return func(ctx context.Context, closed common.PositionClosed) {
		if err := psql.InsertClosedPosition(ctx, l.db, l.appId, l.accountId, closed); err != nil {
			slog.Warn("unable to archive position close", "error", err)
		}
		handler(ctx, closed)
	}
}
