package arbee

import (
	"github.com/arbee-network/arbee/errors"
	"github.com/gogo/protobuf/proto"
)

// Metadata is embedded in every persisted model and message. Schema
// tracks the version of the serialized layout.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema == 0 {
		return errors.Wrap(errors.ErrInvalidModel, "schema version must be set")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	return proto.Marshal((*metadataWire)(m))
}

func (m *Metadata) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*metadataWire)(m))
}

// metadataWire is the protobuf representation of Metadata. It carries no
// Marshal method, so that the table driven codec serializes its fields.
type metadataWire Metadata

func (m *metadataWire) Reset()         { *m = metadataWire{} }
func (m *metadataWire) String() string { return proto.CompactTextString(m) }
func (*metadataWire) ProtoMessage()    {}
