package sigs

import (
	"github.com/arbee-network/arbee/crypto"
	"github.com/arbee-network/arbee/errors"
	"github.com/gogo/protobuf/proto"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the auth.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// Equivalent to GetMsg().Marshal()
	//
	// Unless there is a reason for a special case, this should be
	// a serialization of the transaction without the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns all signatures attached to the transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the key that made it and the
// nonce it was made for.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s == nil {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := s.Pubkey.Validate(); err != nil {
		return errors.Wrap(err, "pubkey")
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error)  { return proto.Marshal((*stdSignatureWire)(s)) }
func (s *StdSignature) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*stdSignatureWire)(s)) }

type stdSignatureWire StdSignature

func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }
func (*stdSignatureWire) ProtoMessage()    {}
