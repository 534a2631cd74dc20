package arbee

import (
	"reflect"

	"github.com/arbee-network/arbee/errors"
)

// assign sets src into dst, which must be a non nil pointer to a value
// src can be assigned to.
func assign(dst, src interface{}) error {
	dstV := reflect.ValueOf(dst)
	if dstV.Kind() != reflect.Ptr || dstV.IsNil() {
		return errors.Wrap(errors.ErrHuman, "destination must be a non nil pointer")
	}
	srcV := reflect.ValueOf(src)
	if !srcV.IsValid() {
		return errors.Wrap(errors.ErrEmpty, "nothing to assign")
	}

	elem := dstV.Elem()
	switch {
	case srcV.Type().AssignableTo(elem.Type()):
		elem.Set(srcV)
	case srcV.Kind() == reflect.Ptr && srcV.Elem().Type().AssignableTo(elem.Type()):
		elem.Set(srcV.Elem())
	default:
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be assigned to %T", src, dst)
	}
	return nil
}
