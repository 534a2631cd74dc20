/*
Package x contains the extensions the arbee application is composed of.

Every sub-package implements a Handler, Decorator or supporting
controller. The root package only holds the authentication helpers
shared by all of them.
*/
package x

import (
	"github.com/arbee-network/arbee"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(arbee.Context) []arbee.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(arbee.Context, arbee.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators
func (m MultiAuth) GetConditions(ctx arbee.Context) []arbee.Condition {
	var res []arbee.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx arbee.Context, addr arbee.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx arbee.Context, auth Authenticator) []arbee.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]arbee.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx arbee.Context, auth Authenticator) arbee.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx arbee.Context, auth Authenticator, required []arbee.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// AnyAddress returns the first of the candidates authenticated in the
// context, or nil if none is.
func AnyAddress(ctx arbee.Context, auth Authenticator, candidates ...arbee.Address) arbee.Address {
	for _, c := range candidates {
		if len(c) != 0 && auth.HasAddress(ctx, c) {
			return c
		}
	}
	return nil
}
