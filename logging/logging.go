// Package logging holds the process-wide structured logger. Parsing never
// depends on it: before Init every call goes to a discarding logger
package logging

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once    sync.Once
	initErr error
	current atomic.Pointer[logr.Logger]
)

// Init builds the process logger. Verbose mode uses zap's development config
// at debug level so that V(1) lines are written. Only the first call builds
// anything, later calls return the first call's error
func Init(verbose bool) error {
	return initWith(newConfig(verbose))
}

func initWith(cfg zap.Config) error {
	once.Do(func() {
		initErr = build(cfg)
	})

	return initErr
}

func newConfig(verbose bool) zap.Config {
	if !verbose {
		return zap.NewProductionConfig()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return cfg
}

func build(cfg zap.Config) error {
	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}

	logger := NewLogger(zl)
	current.Store(&logger)
	return nil
}

// NewLogger wraps a zap logger as a logr.Logger
func NewLogger(zl *zap.Logger) logr.Logger {
	return zapr.NewLogger(zl).WithName("lark")
}

// Logger returns the process logger, or a discarding logger before Init
func Logger() logr.Logger {
	if logger := current.Load(); logger != nil {
		return *logger
	}

	return logr.Discard()
}

// Sync flushes any buffered log entries
func Sync() {
	if logger := current.Load(); logger != nil {
		if underlying, ok := logger.GetSink().(zapr.Underlier); ok {
			_ = underlying.GetUnderlying().Sync()
		}
	}
}
