package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/peter-kozarec/zenith/pkg/bus"
	"github.com/peter-kozarec/zenith/pkg/common"
	"github.com/peter-kozarec/zenith/pkg/utility"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const (
	feedComponentName = "datasource.live.feed"

	DefaultEndpoint = "wss://stream.binance.com:9443/ws"

	readTimeout = 90 * time.Second
)

type klineMessage struct {
	EventType string `json:"e"`
	Symbol    string `json:"s"`
	Kline     struct {
		OpenTime int64  `json:"t"`
		Open     string `json:"o"`
		High     string `json:"h"`
		Low      string `json:"l"`
		Close    string `json:"c"`
		Volume   string `json:"v"`
		Closed   bool   `json:"x"`
	} `json:"k"`
}

// Feed streams closed candles from a websocket kline endpoint and posts them
// as bar events. Only closed candles are forwarded, so the downstream engine
// sees the same bar exactly once.
type Feed struct {
	router   *bus.Router
	endpoint string
	symbol   string
	interval string
	period   time.Duration
}

func NewFeed(router *bus.Router, endpoint, symbol, interval string, period time.Duration) *Feed {
	return &Feed{
		router:   router,
		endpoint: endpoint,
		symbol:   symbol,
		interval: interval,
		period:   period,
	}
}

// Run connects and pumps bars until the context is cancelled or the
// connection fails. The caller owns reconnect policy.
func (f *Feed) Run(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s@kline_%s", f.endpoint, strings.ToLower(f.symbol), f.interval)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("unable to dial %q: %w", url, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return fmt.Errorf("unable to set read deadline: %w", err)
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read failed: %w", err)
		}

		var msg klineMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("unable to decode message", "error", err)
			continue
		}
		if msg.EventType != "kline" || !msg.Kline.Closed {
			continue
		}

		bar, err := f.toBar(msg)
		if err != nil {
			slog.Warn("unable to convert kline", "error", err)
			continue
		}

		if err := f.router.Post(bus.BarEvent, bar); err != nil {
			slog.Warn("unable to post bar event", "error", err)
		}
	}
}

func (f *Feed) toBar(msg klineMessage) (common.Bar, error) {
	var bar common.Bar
	var err error

	if bar.Open, err = fixed.FromString(msg.Kline.Open); err != nil {
		return bar, fmt.Errorf("invalid open: %w", err)
	}
	if bar.High, err = fixed.FromString(msg.Kline.High); err != nil {
		return bar, fmt.Errorf("invalid high: %w", err)
	}
	if bar.Low, err = fixed.FromString(msg.Kline.Low); err != nil {
		return bar, fmt.Errorf("invalid low: %w", err)
	}
	if bar.Close, err = fixed.FromString(msg.Kline.Close); err != nil {
		return bar, fmt.Errorf("invalid close: %w", err)
	}
	if bar.Volume, err = fixed.FromString(msg.Kline.Volume); err != nil {
		return bar, fmt.Errorf("invalid volume: %w", err)
	}

	bar.TimeStamp = time.UnixMilli(msg.Kline.OpenTime)
	bar.Source = feedComponentName
	bar.Symbol = f.symbol
	bar.Period = f.period
	bar.ExecutionId = utility.GetExecutionID()
	bar.TraceID = utility.CreateTraceID()

	return bar, nil
}
