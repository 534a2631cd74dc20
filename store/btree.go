package store

import (
	"bytes"

	"github.com/arbee-network/arbee/errors"
	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// BTreeCacheable adds a simple btree-based CacheWrap
// strategy to a KVStore
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a simple implementation useful for tests.
// There is no persistence here.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a KVStore
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this
// kv store. Use ReadOnlyKVStore to emphasize that all writes
// must go through the Batch.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap layers another BTree on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a non-atomic batch that eventually may write to
// our cachewrap
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write syncs with the underlying store.
// And then cleans up
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	// clean up the btree -> freelist
	for b.bt.DeleteMin() != nil {
	}
}

// Set writes to the BTree and to the batch
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return b.batch.Set(key, value)
}

// Delete deletes from the BTree and to the batch
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return b.batch.Delete(key)
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	if res == nil {
		return b.back.Get(key)
	}
	switch t := res.(type) {
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
	}
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	if res == nil {
		return b.back.Has(key)
	}
	switch res.(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", res)
	}
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	return NewSliceIterator(models), nil
}

// ReverseIterator over a domain of keys in descending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	models, err := b.merged(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

// merged returns all visible models in the [start, end) range in ascending
// order. Cached writes shadow the backing store and cached deletes hide
// its entries.
func (b BTreeCacheWrap) merged(start, end []byte) ([]Model, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	defer parent.Close()

	ours := b.items(start, end)
	var res []Model
	for parent.Valid() || len(ours) > 0 {
		var cmp int
		switch {
		case !parent.Valid():
			cmp = 1
		case len(ours) == 0:
			cmp = -1
		default:
			cmp = bytes.Compare(parent.Key(), ours[0].Key())
		}

		if cmp < 0 {
			res = append(res, Model{Key: parent.Key(), Value: parent.Value()})
			if err := parent.Next(); err != nil {
				return nil, err
			}
			continue
		}
		if cmp == 0 {
			// Our version overwrites the parent one.
			if err := parent.Next(); err != nil {
				return nil, err
			}
		}
		if s, ok := ours[0].(setItem); ok {
			res = append(res, Model{Key: s.key, Value: s.value})
		}
		ours = ours[1:]
	}
	return res, nil
}

// items returns all cached items in the [start, end) range, in ascending
// order, including delete markers.
func (b BTreeCacheWrap) items(start, end []byte) []keyer {
	var res []keyer
	collect := func(i btree.Item) bool {
		res = append(res, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		b.bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return res
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	btree.Item
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
