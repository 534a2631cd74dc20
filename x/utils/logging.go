package utils

import (
	"time"

	"github.com/arbee-network/arbee"
	"github.com/tendermint/tendermint/libs/log"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ arbee.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> error, success -> debug
func (Logging) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Checker) (*arbee.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("check failed", "err", err)
	default:
		logger.Debug("check", "log", res.Log)
	}
	return res, err
}

// Deliver logs error -> error, success -> info
func (Logging) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (*arbee.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	logger := txLogger(ctx, tx, start)
	switch {
	case err != nil:
		logger.Error("deliver failed", "err", err)
	default:
		logger.Info("deliver", "log", res.Log, "notifications", len(res.Notifications))
	}
	return res, err
}

func txLogger(ctx arbee.Context, tx arbee.Tx, start time.Time) log.Logger {
	return arbee.GetLogger(ctx).With(
		"path", arbee.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
}
