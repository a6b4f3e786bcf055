package main

import (
	"time"

	"github.com/peter-kozarec/zenith/pkg/datasource/live"
	"github.com/peter-kozarec/zenith/pkg/middleware"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

const (
	RouterEventCapacity = 100
	MonitorFlags        = middleware.MonitorPositionsOpened | middleware.MonitorPositionsClosed |
		middleware.MonitorOrders | middleware.MonitorOrderRejections

	FeedEndpoint = live.DefaultEndpoint
	Symbol       = "BTCUSDT"
	FeedInterval = "1m"
	BarPeriod    = time.Minute

	RsiPeriod = 14
)

var (
	StartBalance  = fixed.FromInt(10_000, 0)
	RiskFraction  = fixed.MustFromString("0.1")
	Leverage      = fixed.FromInt(5, 0)
	SlFraction    = fixed.MustFromString("0.02")
	TpFraction    = fixed.MustFromString("0.04")
	RsiOversold   = fixed.FromInt(30, 0)
	RsiOverbought = fixed.FromInt(70, 0)
)
