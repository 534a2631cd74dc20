/*
Package crypto provides the ed25519 keys used to sign transactions.

A public key is exposed to the rest of the application as a condition
"sigs/ed25519/<pubkey>", which is what handlers authorize against.
*/
package crypto

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/gogo/protobuf/proto"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// Signer is the functionality we use from a private key.
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey is an ed25519 private key, seed and public part.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if sig == nil || len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition.
//
//	p.Condition().Address()
//
// will return an Address if needed.
func (p *PublicKey) Condition() arbee.Condition {
	return arbee.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is a shortcut for p.Condition().Address().
func (p *PublicKey) Address() arbee.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "public key must be %d bytes", ed25519.PublicKeySize)
	}
	return nil
}

var _ Signer = (*PrivateKey)(nil)

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "malformed private key")
	}
	return &Signature{Ed25519: ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

func (p *PublicKey) Marshal() ([]byte, error)  { return proto.Marshal((*publicKeyWire)(p)) }
func (p *PublicKey) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*publicKeyWire)(p)) }

func (p *PrivateKey) Marshal() ([]byte, error)  { return proto.Marshal((*privateKeyWire)(p)) }
func (p *PrivateKey) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*privateKeyWire)(p)) }

func (s *Signature) Marshal() ([]byte, error)  { return proto.Marshal((*signatureWire)(s)) }
func (s *Signature) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*signatureWire)(s)) }

type publicKeyWire PublicKey

func (m *publicKeyWire) Reset()         { *m = publicKeyWire{} }
func (m *publicKeyWire) String() string { return proto.CompactTextString(m) }
func (*publicKeyWire) ProtoMessage()    {}

type privateKeyWire PrivateKey

func (m *privateKeyWire) Reset()         { *m = privateKeyWire{} }
func (m *privateKeyWire) String() string { return proto.CompactTextString(m) }
func (*privateKeyWire) ProtoMessage()    {}

type signatureWire Signature

func (m *signatureWire) Reset()         { *m = signatureWire{} }
func (m *signatureWire) String() string { return proto.CompactTextString(m) }
func (*signatureWire) ProtoMessage()    {}
