package arbeetest

import (
	"encoding/binary"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() arbee.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an 8 byte big endian encoded sequence value, the
// format used for all sequence generated primary keys.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
