package invoice

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/gogo/protobuf/proto"
)

const (
	pathCreateMsg              = "invoice/create"
	pathDepositMsg             = "invoice/deposit"
	pathDisputeMsg             = "invoice/dispute"
	pathResolveMsg             = "invoice/resolve"
	pathReleaseMsg             = "invoice/release"
	pathCancelMsg              = "invoice/cancel"
	pathUpdateConfigurationMsg = "invoice/update_configuration"
)

var (
	_ arbee.Msg = (*CreateMsg)(nil)
	_ arbee.Msg = (*DepositMsg)(nil)
	_ arbee.Msg = (*DisputeMsg)(nil)
	_ arbee.Msg = (*ResolveMsg)(nil)
	_ arbee.Msg = (*ReleaseMsg)(nil)
	_ arbee.Msg = (*CancelMsg)(nil)
	_ arbee.Msg = (*UpdateConfigurationMsg)(nil)
)

// CreateMsg requests a payment from the payer. The signer becomes the
// payee of the new invoice.
type CreateMsg struct {
	Metadata           *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Asset              string          `protobuf:"bytes,2,opt,name=asset,proto3" json:"asset,omitempty"`
	RequestedUnits     uint64          `protobuf:"varint,3,opt,name=requested_units,json=requestedUnits,proto3" json:"requested_units,omitempty"`
	Description        string          `protobuf:"bytes,4,opt,name=description,proto3" json:"description,omitempty"`
	Title              string          `protobuf:"bytes,5,opt,name=title,proto3" json:"title,omitempty"`
	Payer              arbee.Address   `protobuf:"bytes,6,opt,name=payer,proto3" json:"payer,omitempty"`
	Arbitrator         arbee.Address   `protobuf:"bytes,7,opt,name=arbitrator,proto3" json:"arbitrator,omitempty"`
	ArbitratorFeeUnits uint64          `protobuf:"varint,8,opt,name=arbitrator_fee_units,json=arbitratorFeeUnits,proto3" json:"arbitrator_fee_units,omitempty"`
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate checks the message alone. Rules involving the signer are
// enforced by the engine.
func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(m.Metadata.Validate(), "metadata"))
	errs = errors.Append(errs, errors.Wrap(custody.ValidateAsset(m.Asset), "asset"))
	errs = errors.Append(errs, validateAmounts(m.RequestedUnits, m.ArbitratorFeeUnits, len(m.Arbitrator) != 0))
	errs = errors.Append(errs, errors.Wrap(m.Payer.Validate(), "payer"))
	if len(m.Arbitrator) != 0 {
		errs = errors.Append(errs, errors.Wrap(m.Arbitrator.Validate(), "arbitrator"))
		if m.Arbitrator.Equals(m.Payer) {
			errs = errors.Append(errs, errors.Wrap(errors.ErrInvalidInput, "payer cannot arbitrate"))
		}
	}
	errs = errors.Append(errs, validateTexts(m.Title, m.Description))
	return errs
}

// DepositMsg moves funds of the payer into the custody of an invoice.
//
// Value declares the native currency attached to the call. It must match
// Amount for a native invoice and be zero for a token invoice.
type DepositMsg struct {
	Metadata  *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	InvoiceID uint64          `protobuf:"varint,2,opt,name=invoice_id,json=invoiceId,proto3" json:"invoice_id"`
	Amount    uint64          `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Value     uint64          `protobuf:"varint,4,opt,name=value,proto3" json:"value,omitempty"`
}

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(m.Metadata.Validate(), "metadata"))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Wrap(errors.ErrInvalidAmount, "deposit amount must be positive"))
	}
	return errs
}

// DisputeMsg asks the arbitrator to settle a pending invoice.
type DisputeMsg struct {
	Metadata  *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	InvoiceID uint64          `protobuf:"varint,2,opt,name=invoice_id,json=invoiceId,proto3" json:"invoice_id"`
}

func (DisputeMsg) Path() string {
	return pathDisputeMsg
}

func (m *DisputeMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// ResolveMsg is the arbitrator's decision on a disputed invoice.
type ResolveMsg struct {
	Metadata  *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	InvoiceID uint64          `protobuf:"varint,2,opt,name=invoice_id,json=invoiceId,proto3" json:"invoice_id"`
	Outcome   Outcome         `protobuf:"varint,3,opt,name=outcome,proto3,enum=invoice.Outcome" json:"outcome"`
}

func (ResolveMsg) Path() string {
	return pathResolveMsg
}

func (m *ResolveMsg) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(m.Metadata.Validate(), "metadata"))
	errs = errors.Append(errs, m.Outcome.Validate())
	return errs
}

// ReleaseMsg is sent by the payee once both parties agree the invoice is
// settled.
type ReleaseMsg struct {
	Metadata  *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	InvoiceID uint64          `protobuf:"varint,2,opt,name=invoice_id,json=invoiceId,proto3" json:"invoice_id"`
}

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

func (m *ReleaseMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// CancelMsg withdraws an invoice that was not fully funded yet.
type CancelMsg struct {
	Metadata  *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	InvoiceID uint64          `protobuf:"varint,2,opt,name=invoice_id,json=invoiceId,proto3" json:"invoice_id"`
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	return errors.Wrap(m.Metadata.Validate(), "metadata")
}

// UpdateConfigurationMsg patches the configuration. Only non zero fields
// of the patch are applied.
type UpdateConfigurationMsg struct {
	Metadata *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Patch    *Configuration  `protobuf:"bytes,2,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	if len(m.Patch.Owner) != 0 {
		if err := m.Patch.Owner.Validate(); err != nil {
			return errors.Wrap(err, "patch owner")
		}
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error)  { return proto.Marshal((*createMsgWire)(m)) }
func (m *CreateMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*createMsgWire)(m)) }

func (m *DepositMsg) Marshal() ([]byte, error)  { return proto.Marshal((*depositMsgWire)(m)) }
func (m *DepositMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*depositMsgWire)(m)) }

func (m *DisputeMsg) Marshal() ([]byte, error)  { return proto.Marshal((*disputeMsgWire)(m)) }
func (m *DisputeMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*disputeMsgWire)(m)) }

func (m *ResolveMsg) Marshal() ([]byte, error)  { return proto.Marshal((*resolveMsgWire)(m)) }
func (m *ResolveMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*resolveMsgWire)(m)) }

func (m *ReleaseMsg) Marshal() ([]byte, error)  { return proto.Marshal((*releaseMsgWire)(m)) }
func (m *ReleaseMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*releaseMsgWire)(m)) }

func (m *CancelMsg) Marshal() ([]byte, error)  { return proto.Marshal((*cancelMsgWire)(m)) }
func (m *CancelMsg) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*cancelMsgWire)(m)) }

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*updateConfigurationMsgWire)(m))
}
func (m *UpdateConfigurationMsg) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*updateConfigurationMsgWire)(m))
}

type createMsgWire CreateMsg

func (m *createMsgWire) Reset()         { *m = createMsgWire{} }
func (m *createMsgWire) String() string { return proto.CompactTextString(m) }
func (*createMsgWire) ProtoMessage()    {}

type depositMsgWire DepositMsg

func (m *depositMsgWire) Reset()         { *m = depositMsgWire{} }
func (m *depositMsgWire) String() string { return proto.CompactTextString(m) }
func (*depositMsgWire) ProtoMessage()    {}

type disputeMsgWire DisputeMsg

func (m *disputeMsgWire) Reset()         { *m = disputeMsgWire{} }
func (m *disputeMsgWire) String() string { return proto.CompactTextString(m) }
func (*disputeMsgWire) ProtoMessage()    {}

type resolveMsgWire ResolveMsg

func (m *resolveMsgWire) Reset()         { *m = resolveMsgWire{} }
func (m *resolveMsgWire) String() string { return proto.CompactTextString(m) }
func (*resolveMsgWire) ProtoMessage()    {}

type releaseMsgWire ReleaseMsg

func (m *releaseMsgWire) Reset()         { *m = releaseMsgWire{} }
func (m *releaseMsgWire) String() string { return proto.CompactTextString(m) }
func (*releaseMsgWire) ProtoMessage()    {}

type cancelMsgWire CancelMsg

func (m *cancelMsgWire) Reset()         { *m = cancelMsgWire{} }
func (m *cancelMsgWire) String() string { return proto.CompactTextString(m) }
func (*cancelMsgWire) ProtoMessage()    {}

type updateConfigurationMsgWire UpdateConfigurationMsg

func (m *updateConfigurationMsgWire) Reset()         { *m = updateConfigurationMsgWire{} }
func (m *updateConfigurationMsgWire) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgWire) ProtoMessage()    {}
