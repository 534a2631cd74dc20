package arbeetest

import (
	"context"
	"fmt"

	"github.com/arbee-network/arbee"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions. Signer and
// Signers can be combined and all of them are considered.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer arbee.Condition

	// Signers represents an authentication of multiple signers.
	Signers []arbee.Condition
}

func (a *Auth) GetConditions(arbee.Context) []arbee.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx arbee.Context, addr arbee.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx arbee.Context, conds ...arbee.Condition) arbee.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx arbee.Context) []arbee.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]arbee.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []arbee.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx arbee.Context, addr arbee.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
