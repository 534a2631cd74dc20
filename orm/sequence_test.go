package orm

import (
	"math"
	"testing"

	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("invoice", SeqID)
	b := NewSequence("wallet", SeqID)

	cur, err := a.Current(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cur)

	for want := uint64(1); want <= 3; want++ {
		got, err := a.NextInt(db)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	cur, err = a.Current(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cur)

	// Sequences do not share their state.
	raw, err := b.NextVal(db)
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), raw)
}

func TestSequenceOverflow(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("invoice", SeqID)
	require.NoError(t, db.Set(s.id, EncodeSequence(math.MaxUint64)))

	_, err := s.NextInt(db)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestValidateSequence(t *testing.T) {
	assert.True(t, errors.ErrEmpty.Is(ValidateSequence(nil)))
	assert.True(t, errors.ErrInvalidInput.Is(ValidateSequence([]byte{1, 2})))
	assert.NoError(t, ValidateSequence(EncodeSequence(5)))
}
