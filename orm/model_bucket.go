package orm

import (
	"reflect"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
//
// This is the same interface as CloneableData. Using the right type names
// provides an easier to read API.
type Model interface {
	arbee.Persistent
	Validate() error
	Copy() CloneableData
}

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrInvalidType
	// is returned.
	One(db arbee.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex returns all models that are referenced by the given
	// index value.
	ByIndex(db arbee.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) error

	// Has returns nil if an entity with the given primary key is stored
	// and ErrNotFound otherwise.
	Has(db arbee.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database.
	Put(db arbee.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db arbee.KVStore, key []byte) error

	// Register registers this bucket and its indexes in the query router.
	Register(name string, r arbee.QueryRouter)
}

// ModelSlicePtr represents a pointer to a slice of models. Think of it as
// *[]Model Because of Go type system, using []Model type would not work for us.
// Instead we use a placeholder type and the validation is done during the
// runtime.
type ModelSlicePtr interface{}

// NewModelBucket returns a ModelBucket instance that stores models in the
// given bucket.
func NewModelBucket(b Bucket) ModelBucket {
	return &modelBucket{b: b}
}

type modelBucket struct {
	b Bucket
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db arbee.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	res := obj.Value()

	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %T", res, dest)
	}

	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) ByIndex(db arbee.ReadOnlyKVStore, indexName string, key []byte, destination ModelSlicePtr) error {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return err
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr || dest.Elem().Kind() != reflect.Slice {
		return errors.Wrapf(errors.ErrInvalidType, "%T is not a pointer to a slice", destination)
	}
	slice := dest.Elem()
	elemType := slice.Type().Elem()

	for _, obj := range objs {
		if obj == nil {
			continue
		}
		val := reflect.ValueOf(obj.Value())
		switch {
		case val.Type().AssignableTo(elemType):
			slice = reflect.Append(slice, val)
		case val.Elem().Type().AssignableTo(elemType):
			slice = reflect.Append(slice, val.Elem())
		default:
			return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %s", obj.Value(), elemType)
		}
	}
	dest.Elem().Set(slice)
	return nil
}

func (mb *modelBucket) Has(db arbee.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.b.name)
	}
	return nil
}

func (mb *modelBucket) Put(db arbee.KVStore, key []byte, m Model) error {
	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db arbee.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Register(name string, r arbee.QueryRouter) {
	mb.b.Register(name, r)
}
