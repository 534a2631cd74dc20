package utils

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ arbee.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Checker) (*arbee.CheckResult, error) {
	var res *arbee.CheckResult
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	err := Atomically(store, func(db arbee.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (*arbee.DeliverResult, error) {
	var res *arbee.DeliverResult
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	err := Atomically(store, func(db arbee.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Atomically runs fn on a cache of store and writes the cache through only
// if fn succeeded. When the store cannot be cached, fn operates on the store
// directly.
func Atomically(store arbee.KVStore, fn func(arbee.KVStore) error) error {
	cstore, ok := store.(arbee.CacheableKVStore)
	if !ok {
		return fn(store)
	}

	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
