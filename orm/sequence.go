package orm

import (
	"encoding/binary"
	"math"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
//
// A fresh sequence is at 0 and the first issued value is 1, so the
// current value always equals the number of values issued so far.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s *Sequence) NextVal(db arbee.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db, 1)
	return bz, err
}

// NextInt increments the sequence and returns its state as int.
func (s *Sequence) NextInt(db arbee.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Current returns the recently returned value of the sequence. This method
// does not modify the sequence state.
func (s *Sequence) Current(db arbee.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot load sequence")
	}
	return DecodeSequence(raw)
}

func (s *Sequence) increment(db arbee.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Current(db)
	if err != nil {
		return 0, nil, err
	}
	if val > math.MaxUint64-inc {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, errors.Wrap(err, "cannot save sequence")
	}
	return val, raw, nil
}

// DecodeSequence reads the sequence value stored as 8 big endian bytes.
// Missing value stands for 0.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.Wrap(errors.ErrInvalidInput, "sequence is invalid length (expect 8 bytes)")
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence writes the sequence value as 8 big endian bytes.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// ValidateSequence returns an error if this is not an 8-byte
// sequence key.
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}
