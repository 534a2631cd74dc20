package utils

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ arbee.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into ErrPanic errors
func (Recovery) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Checker) (_ *arbee.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into ErrPanic errors
func (Recovery) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (_ *arbee.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
