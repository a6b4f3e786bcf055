package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/peter-kozarec/zenith/pkg/middleware"
	"github.com/peter-kozarec/zenith/pkg/utility/fixed"
)

var SimulationStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
var SimulationEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

const (
	RouterEventCapacity = 100
	MonitorFlags        = middleware.MonitorPositionsOpened | middleware.MonitorPositionsClosed | middleware.MonitorOrderRejections

	Symbol    = "BTCUSD"
	BarPeriod = time.Hour

	RsiPeriod     = 14
	AppId         = 1
	AccountId     = 1
	SyntheticBars = 5000
	SyntheticSeed = 42
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

type config struct {
	BarDataSource string

	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDb   string
}

func loadConfig() config {
	_ = godotenv.Load()

	return config{
		BarDataSource: os.Getenv("BAR_DATA_SOURCE"),
		PostgresHost:  os.Getenv("POSTGRES_HOST"),
		PostgresPort:  getenvDefault("POSTGRES_PORT", "5432"),
		PostgresUser:  os.Getenv("POSTGRES_USER"),
		PostgresPass:  os.Getenv("POSTGRES_PASSWORD"),
		PostgresDb:    os.Getenv("POSTGRES_DB"),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
