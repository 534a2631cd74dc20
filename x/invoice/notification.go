package invoice

import (
	"strconv"

	"github.com/arbee-network/arbee"
	"github.com/tendermint/tendermint/libs/common"
)

// Kinds of the notifications emitted by the invoice extension.
const (
	KindCreated              = "created"
	KindFunded               = "funded"
	KindDisputed             = "disputed"
	KindResolved             = "resolved"
	KindReleased             = "released"
	KindCancelled            = "cancelled"
	KindConfigurationUpdated = "configuration_updated"
)

// Payout is a single transfer out of the custody of an invoice.
type Payout struct {
	Recipient arbee.Address `json:"recipient"`
	Units     uint64        `json:"units"`
}

// Notification describes a state change of a single invoice. It serializes
// to JSON for external observers.
type Notification struct {
	Event      string        `json:"kind"`
	InvoiceID  uint64        `json:"invoice_id"`
	Actor      arbee.Address `json:"actor,omitempty"`
	Payee      arbee.Address `json:"payee,omitempty"`
	Payer      arbee.Address `json:"payer,omitempty"`
	Arbitrator arbee.Address `json:"arbitrator,omitempty"`
	Asset      string        `json:"asset,omitempty"`
	// RequestedUnits is only reported on creation.
	RequestedUnits uint64   `json:"requested_units,omitempty"`
	Balance        uint64   `json:"balance"`
	State          State    `json:"state"`
	Outcome        Outcome  `json:"outcome,omitempty"`
	Payouts        []Payout `json:"payouts,omitempty"`
}

var _ arbee.Notification = (*Notification)(nil)

func newNotification(kind string, id uint64, actor arbee.Address, inv *Invoice) *Notification {
	return &Notification{
		Event:      kind,
		InvoiceID:  id,
		Actor:      actor,
		Payee:      inv.Payee,
		Payer:      inv.Payer,
		Arbitrator: inv.Arbitrator,
		Asset:      inv.Asset,
		Balance:    inv.CustodiedBalance,
		State:      inv.State,
	}
}

func (n *Notification) Kind() string {
	return n.Event
}

func (n *Notification) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte("invoice.id"), Value: []byte(strconv.FormatUint(n.InvoiceID, 10))},
		{Key: []byte("invoice.event"), Value: []byte(n.Event)},
		{Key: []byte("invoice.state"), Value: []byte(n.State.String())},
	}
}

// ConfigurationNotification is emitted when the owner changed the
// configuration.
type ConfigurationNotification struct {
	Owner arbee.Address `json:"owner"`
}

var _ arbee.Notification = (*ConfigurationNotification)(nil)

func (ConfigurationNotification) Kind() string {
	return KindConfigurationUpdated
}

func (n ConfigurationNotification) Tags() []common.KVPair {
	return []common.KVPair{
		{Key: []byte("invoice.event"), Value: []byte(KindConfigurationUpdated)},
	}
}
