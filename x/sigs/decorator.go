package sigs

import (
	"context"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x"
)

const signatureVerifyCost = 500

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr arbee.QueryRouter) {
	NewBucket().Register("auth", qr)
}

type contextKey int

const contextKeySigners contextKey = iota

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx arbee.Context, signers []arbee.Condition) arbee.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate reveals the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (Authenticate) GetConditions(ctx arbee.Context) []arbee.Condition {
	val, _ := ctx.Value(contextKeySigners).([]arbee.Condition)
	return val
}

// HasAddress returns true if the address signed the current Context.
func (a Authenticate) HasAddress(ctx arbee.Context, addr arbee.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// Decorator verifies the signatures and adds them to the context
type Decorator struct {
	allowMissingSigs bool
}

var _ arbee.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator,
// which appends the chainID before checking the signature,
// and requires at least one signature to be present
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs allows us to pass along items with no signatures
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Checker) (*arbee.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	// Charge only for the valid signatures.
	res.GasPayment += int64(n * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (*arbee.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func (d Decorator) authenticate(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (arbee.Context, int, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := VerifyTxSignatures(store, stx, arbee.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}
