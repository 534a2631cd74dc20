package app

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x/invoice"
	"github.com/arbee-network/arbee/x/sigs"
	"github.com/gogo/protobuf/proto"
)

// Tx is the transaction envelope accepted by the ledger. Exactly one of the
// message fields must be set.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`

	CreateInvoiceMsg              *invoice.CreateMsg              `protobuf:"bytes,20,opt,name=create_invoice_msg,json=createInvoiceMsg,proto3" json:"create_invoice_msg,omitempty"`
	DepositInvoiceMsg             *invoice.DepositMsg             `protobuf:"bytes,21,opt,name=deposit_invoice_msg,json=depositInvoiceMsg,proto3" json:"deposit_invoice_msg,omitempty"`
	DisputeInvoiceMsg             *invoice.DisputeMsg             `protobuf:"bytes,22,opt,name=dispute_invoice_msg,json=disputeInvoiceMsg,proto3" json:"dispute_invoice_msg,omitempty"`
	ResolveInvoiceMsg             *invoice.ResolveMsg             `protobuf:"bytes,23,opt,name=resolve_invoice_msg,json=resolveInvoiceMsg,proto3" json:"resolve_invoice_msg,omitempty"`
	ReleaseInvoiceMsg             *invoice.ReleaseMsg             `protobuf:"bytes,24,opt,name=release_invoice_msg,json=releaseInvoiceMsg,proto3" json:"release_invoice_msg,omitempty"`
	CancelInvoiceMsg              *invoice.CancelMsg              `protobuf:"bytes,25,opt,name=cancel_invoice_msg,json=cancelInvoiceMsg,proto3" json:"cancel_invoice_msg,omitempty"`
	InvoiceUpdateConfigurationMsg *invoice.UpdateConfigurationMsg `protobuf:"bytes,26,opt,name=invoice_update_configuration_msg,json=invoiceUpdateConfigurationMsg,proto3" json:"invoice_update_configuration_msg,omitempty"`
}

// make sure tx fulfills all interfaces
var _ arbee.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (arbee.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return tx, nil
}

// NewTx returns a transaction carrying the given message.
func NewTx(msg arbee.Msg) (*Tx, error) {
	tx := new(Tx)
	switch m := msg.(type) {
	case *invoice.CreateMsg:
		tx.CreateInvoiceMsg = m
	case *invoice.DepositMsg:
		tx.DepositInvoiceMsg = m
	case *invoice.DisputeMsg:
		tx.DisputeInvoiceMsg = m
	case *invoice.ResolveMsg:
		tx.ResolveInvoiceMsg = m
	case *invoice.ReleaseMsg:
		tx.ReleaseInvoiceMsg = m
	case *invoice.CancelMsg:
		tx.CancelInvoiceMsg = m
	case *invoice.UpdateConfigurationMsg:
		tx.InvoiceUpdateConfigurationMsg = m
	default:
		return nil, errors.WithType(errors.ErrInvalidType, msg)
	}
	return tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (tx *Tx) GetMsg() (arbee.Msg, error) {
	var found []arbee.Msg
	if tx.CreateInvoiceMsg != nil {
		found = append(found, tx.CreateInvoiceMsg)
	}
	if tx.DepositInvoiceMsg != nil {
		found = append(found, tx.DepositInvoiceMsg)
	}
	if tx.DisputeInvoiceMsg != nil {
		found = append(found, tx.DisputeInvoiceMsg)
	}
	if tx.ResolveInvoiceMsg != nil {
		found = append(found, tx.ResolveInvoiceMsg)
	}
	if tx.ReleaseInvoiceMsg != nil {
		found = append(found, tx.ReleaseInvoiceMsg)
	}
	if tx.CancelInvoiceMsg != nil {
		found = append(found, tx.CancelInvoiceMsg)
	}
	if tx.InvoiceUpdateConfigurationMsg != nil {
		found = append(found, tx.InvoiceUpdateConfigurationMsg)
	}

	switch len(found) {
	case 0:
		return nil, errors.Wrap(errors.ErrEmpty, "tx message")
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "tx carries %d messages", len(found))
	}
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) { return proto.Marshal((*txWire)(tx)) }
func (tx *Tx) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*txWire)(tx))
}

type txWire Tx

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }
func (*txWire) ProtoMessage()    {}
