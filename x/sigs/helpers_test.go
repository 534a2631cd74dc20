package sigs

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
)

// StdTx is a transaction carrying raw payload and signatures.
type StdTx struct {
	arbee.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &arbeetest.Msg{RoutePath: "test/payload", Serialized: payload}
	return &StdTx{Tx: &arbeetest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []arbee.Condition
}

var _ arbee.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &arbee.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &arbee.DeliverResult{}, nil
}
