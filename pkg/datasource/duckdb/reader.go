package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/datasource"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const readerComponentName = "datasource.duckdb.reader"

// BarReader streams OHLCV rows for one symbol out of a duckdb database,
// ordered by timestamp and restricted to the [from, to] range. The query is
// issued lazily on the first GetNext, and the stream is iterable once.
type BarReader struct {
	dataSourceName string
	symbol         string
	period         time.Duration
	from           time.Time
	to             time.Time

	db   *sql.DB
	rows *sql.Rows
}

func NewBarReader(dataSourceName, symbol string, period time.Duration, from, to time.Time) *BarReader {
	return &BarReader{
		dataSourceName: dataSourceName,
		symbol:         symbol,
		period:         period,
		from:           from,
		to:             to,
	}
}

func (r *BarReader) Open(ctx context.Context) error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to open duckdb %q: %w", r.dataSourceName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("unable to ping duckdb %q: %w", r.dataSourceName, err)
	}
	r.db = db
	return nil
}

func (r *BarReader) Close() {
	if r.rows != nil {
		_ = r.rows.Close()
	}
	if r.db != nil {
		_ = r.db.Close()
	}
}

func (r *BarReader) GetNext() (common.Bar, error) {
	var bar common.Bar

	if r.rows == nil {
		query := fmt.Sprintf(
			`SELECT ts, open, high, low, close, volume FROM %s_bars WHERE ts BETWEEN ? AND ? ORDER BY ts`,
			r.symbol)

		rows, err := r.db.Query(query, r.from, r.to)
		if err != nil {
			return bar, fmt.Errorf("error executing query: %w", err)
		}
		r.rows = rows
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return bar, fmt.Errorf("error scanning rows: %w", err)
		}
		return bar, datasource.ErrEof
	}

	var (
		timeStamp                       time.Time
		open, high, low, closeP, volume float64
	)
	if err := r.rows.Scan(&timeStamp, &open, &high, &low, &closeP, &volume); err != nil {
		return bar, fmt.Errorf("error scanning row: %w", err)
	}

	bar.TimeStamp = timeStamp
	bar.Open = fixed.FromFloat64(open)
	bar.High = fixed.FromFloat64(high)
	bar.Low = fixed.FromFloat64(low)
	bar.Close = fixed.FromFloat64(closeP)
	bar.Volume = fixed.FromFloat64(volume)
	bar.Source = readerComponentName
	bar.Symbol = r.symbol
	bar.Period = r.period
	bar.ExecutionId = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()

	return bar, nil
}
