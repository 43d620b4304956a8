// Package logger owns the process-wide structured logger for the
// investrack backend. Every package logs through the shared sugared
// logger returned by Get; handlers and services never build their own.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the shared logger once for the given environment.
// "production" emits JSON with ISO-8601 timestamps so log shippers can
// parse entries; every other environment gets the console encoder.
// Later calls are no-ops.
func Init(env string) {
	once.Do(func() {
		var cfg zap.Config
		if env == "production" {
			cfg = zap.NewProductionConfig()
			cfg.EncoderConfig.TimeKey = "ts"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		} else {
			cfg = zap.NewDevelopmentConfig()
		}

		base, err := cfg.Build()
		if err != nil {
			// A broken logging config must not take the API down.
			base = zap.NewNop()
		}

		sugar = base.Named("investrack").Sugar()
	})
}

// Get returns the shared sugared logger, initializing a development
// logger when Init has not run (tests rely on this).
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Sync flushes buffered entries. Deferred from main before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
