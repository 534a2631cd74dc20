package sigs

import (
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/crypto"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	cases := map[string]struct {
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"valid": {chainID: "test-chain", seq: 3},
		"negative sequence": {
			chainID: "test-chain",
			seq:     -1,
			wantErr: ErrInvalidSequence,
		},
		"invalid chain id": {
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("payload"), tc.chainID, tc.seq)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
			if tc.wantErr == nil {
				assert.Len(t, bz, 64)
			}
		})
	}

	// Every part of the input changes the result.
	a, _ := BuildSignBytes([]byte("payload"), "test-chain", 1)
	b, _ := BuildSignBytes([]byte("payload"), "test-chain", 2)
	c, _ := BuildSignBytes([]byte("payload"), "other-chain", 1)
	d, _ := BuildSignBytes([]byte("payloaD"), "test-chain", 1)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Address()
	chainID := "emma-peel"
	bz := []byte("my special valentine")

	tx := NewStdTx(bz)
	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)

	nonce, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), nonce)

	// wrong sequence
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// wrong chain id
	_, err = VerifySignature(kv, sig0, bz, "metro-fm")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// wrong message
	_, err = VerifySignature(kv, sig0, []byte("other"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	cond, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey().Condition(), cond)

	// replay is rejected
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	nonce, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)

	_, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)

	// missing signature data
	_, err = VerifySignature(kv, &StdSignature{Pubkey: priv.PublicKey()}, bz, chainID)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "hot_summer_days"
	a := crypto.GenPrivKeyEd25519()
	b := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("foobar"))
	sigA, err := SignTx(a, tx, chainID, 0)
	require.NoError(t, err)
	sigB, err := SignTx(b, tx, chainID, 0)
	require.NoError(t, err)

	tx.Signatures = []*StdSignature{sigA, sigB}
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []arbee.Condition{a.PublicKey().Condition(), b.PublicKey().Condition()}, signers)

	// Both nonces were used.
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	tx.Signatures = nil
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)
}

func TestUserData(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	u, err := NewBucket().GetOrCreate(store.MemStore(), pub)
	require.NoError(t, err)
	require.NoError(t, u.Validate())

	bz, err := u.Marshal()
	require.NoError(t, err)
	var loaded UserData
	require.NoError(t, loaded.Unmarshal(bz))
	assert.Equal(t, pub.Ed25519, loaded.Pubkey.Ed25519)

	require.NoError(t, u.CheckAndIncrementSequence(0))
	assert.True(t, ErrInvalidSequence.Is(u.CheckAndIncrementSequence(0)))

	u.Sequence = (1 << 53) - 1
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(u.Sequence)))

	invalid := &UserData{Sequence: -1}
	err = invalid.Validate()
	assert.True(t, errors.ErrEmpty.Is(err))
	assert.True(t, ErrInvalidSequence.Is(err))
}
