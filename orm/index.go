package orm

import (
	"bytes"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Index is a secondary index on the objects stored in a bucket.
type Index interface {
	arbee.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db arbee.KVStore, prev Object, save Object) error

	// GetAt returns the primary keys of all objects indexed under given
	// value.
	GetAt(db arbee.ReadOnlyKVStore, index []byte) ([][]byte, error)
}

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given object. A nil key
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// compactIndex is an index implementation that stores all indexed entities as
// a set, serialized and stored under single key. This implementation should be
// used only for small sized index collection.
//
// The value is one primary key (unique),
// Or an array of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(compactIdxPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
//
// Otherwise, it will check indexer(prev) and indexer(save)
// and make sure the key is now stored in the right location
func (i compactIndex) Update(db arbee.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		key, err := i.index(save)
		if err != nil || key == nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case save == nil:
		key, err := i.index(prev)
		if err != nil || key == nil {
			return err
		}
		return i.remove(db, key, prev.Key())
	default:
		return i.move(db, prev, save)
	}
}

func (i compactIndex) move(db arbee.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrHuman, "cannot modify the primary key of an object")
	}
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if oldKey != nil {
		if err := i.remove(db, oldKey, prev.Key()); err != nil {
			return err
		}
	}
	if newKey != nil {
		return i.insert(db, newKey, save.Key())
	}
	return nil
}

func (i compactIndex) insert(db arbee.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbkey, pk)
	}

	var refs MultiRef
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return errors.Wrap(err, "cannot unmarshal index refs")
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

func (i compactIndex) remove(db arbee.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s entry", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrInvalidState, "index %s points to another object", i.name)
		}
		return db.Delete(dbkey)
	}

	var refs MultiRef
	if err := refs.Unmarshal(cur); err != nil {
		return errors.Wrap(err, "cannot unmarshal index refs")
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(dbkey)
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

// GetAt returns a list of all pk at that index (may be nil), or an error
func (i compactIndex) GetAt(db arbee.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(index))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(val); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal index refs")
	}
	return refs.Refs, nil
}

// Query handles queries from the QueryRouter. Result are the objects
// referenced by the index, not the index entries.
func (i compactIndex) Query(db arbee.ReadOnlyKVStore, mod string, data []byte) ([]arbee.Model, error) {
	switch mod {
	case arbee.KeyQueryMod:
		refs, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		return i.loadRefs(db, refs)
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
}

func (i compactIndex) loadRefs(db arbee.ReadOnlyKVStore, refs [][]byte) ([]arbee.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]arbee.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = arbee.Pair(key, value)
	}
	return res, nil
}
