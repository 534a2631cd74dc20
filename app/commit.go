package app

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// CommitStore handles loading from a KVCommitStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed arbee.CommitKVStore
	deliver   arbee.KVCacheWrap
	check     arbee.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk. It sets up the deliver
// and check caches.
func NewCommitStore(store arbee.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (arbee.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches
func (cs *CommitStore) Commit() (arbee.CommitID, error) {
	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return arbee.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, errors.Wrap(errors.ErrDatabase, err.Error())
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() arbee.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() arbee.CacheableKVStore {
	return cs.deliver
}

// _arb: is a prefix for ledger internal data
const chainIDKey = "_arb:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv arbee.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv arbee.KVStore, chainID string) error {
	if !arbee.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
