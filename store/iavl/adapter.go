/*
Package iavl provides a persistent, merkle-ized commit store backed by the
tendermint iavl tree.
*/
package iavl

import (
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing. Data is kept in a
// leveldb database called name, within the dir directory.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize)}, nil
}

// MockCommitStore creates a new in-memory store for testing.
func MockCommitStore() CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(dbm.NewMemDB(), DefaultCacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap gives us a savepoint to perform actions. Writing the cache
// updates the working tree, which is persisted on the next Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	w := working{tree: s.tree}
	return store.NewBTreeCacheWrap(w, w.NewBatch(), nil)
}

// working exposes the uncommitted iavl tree as a KVStore.
type working struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = working{}

func (w working) Get(key []byte) ([]byte, error) {
	_, val := w.tree.Get(key)
	return val, nil
}

func (w working) Has(key []byte) (bool, error) {
	return w.tree.Has(key), nil
}

func (w working) Set(key, value []byte) error {
	// iavl refuses nil values.
	if value == nil {
		value = []byte{}
	}
	w.tree.Set(key, value)
	return nil
}

func (w working) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}

func (w working) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(w)
}

func (w working) Iterator(start, end []byte) (store.Iterator, error) {
	return w.collect(start, end, true), nil
}

func (w working) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return w.collect(start, end, false), nil
}

func (w working) collect(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	w.tree.IterateRange(start, end, ascending, func(key []byte, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(res)
}
