package dbg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDevLogger builds a console logger for local runs and backtests.
func NewDevLogger() *zap.Logger {
	return build(zap.NewDevelopmentConfig())
}

// NewProdLogger builds a JSON logger for long-lived deployments.
func NewProdLogger() *zap.Logger {
	return build(zap.NewProductionConfig())
}

func build(cfg zap.Config) *zap.Logger {
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
