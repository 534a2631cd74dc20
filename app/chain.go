package app

import (
	"reflect"

	"github.com/arbee-network/arbee"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []arbee.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewSavepoint().OnDeliver(),
	).WithHandler(
	  app.NewRouter(),
	)
*/
func ChainDecorators(chain ...arbee.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...arbee.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]arbee.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil will in-place remove all nil values from given slice.
func cutoffNil(ds []arbee.Decorator) []arbee.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h arbee.Handler) arbee.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    arbee.Decorator
	next arbee.Handler
}

var _ arbee.Handler = step{}

func (s step) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
