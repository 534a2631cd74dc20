package sigs

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/crypto"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/orm"
	"github.com/gogo/protobuf/proto"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// ErrInvalidSequence is returned when a signature nonce does not match the
// stored one.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")

// UserData is the nonce state kept for every public key that signed a
// transaction.
type UserData struct {
	Metadata *arbee.Metadata   `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Pubkey   *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64             `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(u.Metadata.Validate(), "metadata"))
	if u.Pubkey == nil {
		errs = errors.Append(errs, errors.Wrap(errors.ErrEmpty, "pubkey"))
	} else {
		errs = errors.Append(errs, u.Pubkey.Validate())
	}
	if u.Sequence < 0 {
		errs = errors.Append(errs, errors.Wrap(ErrInvalidSequence, "negative"))
	}
	return errs
}

func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Metadata: u.Metadata.Copy(),
		Pubkey:   u.Pubkey,
		Sequence: u.Sequence,
	}
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	// Clients represent the nonce as a float64 integer.
	const maxSequenceValue = (1 << 53) - 1
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

func (u *UserData) Marshal() ([]byte, error)  { return proto.Marshal((*userDataWire)(u)) }
func (u *UserData) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*userDataWire)(u)) }

type userDataWire UserData

func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }
func (*userDataWire) ProtoMessage()    {}

// Bucket keeps UserData by the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &UserData{}))
	return Bucket{ModelBucket: orm.NewModelBucket(b)}
}

// GetOrCreate loads the UserData of given key, initializing a fresh one
// if none exist for it.
func (b Bucket) GetOrCreate(db arbee.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var u UserData
	switch err := b.One(db, pubkey.Address(), &u); {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &arbee.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. Nonce counting starts with zero.
func NextNonce(db arbee.ReadOnlyKVStore, signer arbee.Address) (int64, error) {
	var u UserData
	switch err := NewBucket().One(db, signer, &u); {
	case err == nil:
		return u.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
