package invoice

import (
	"encoding/json"
	"fmt"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/orm"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/gogo/protobuf/proto"
)

const (
	maxDescriptionLength = 512
	maxTitleLength       = 128
)

// State is the position of an invoice in its life cycle.
type State int32

const (
	StateInvalid State = iota
	StateNew
	StatePending
	StateDisputed
	StateResolvedPaid
	StateResolvedRefunded
	StateCancelled
)

var State_name = map[int32]string{
	0: "Invalid",
	1: "New",
	2: "Pending",
	3: "Disputed",
	4: "ResolvedPaid",
	5: "ResolvedRefunded",
	6: "Cancelled",
}

var State_value = map[string]int32{
	"Invalid":          0,
	"New":              1,
	"Pending":          2,
	"Disputed":         3,
	"ResolvedPaid":     4,
	"ResolvedRefunded": 5,
	"Cancelled":        6,
}

func (s State) String() string {
	return proto.EnumName(State_name, int32(s))
}

// IsTerminal returns true for states no operation can leave.
func (s State) IsTerminal() bool {
	switch s {
	case StateResolvedPaid, StateResolvedRefunded, StateCancelled:
		return true
	}
	return false
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(raw []byte) error {
	n, err := unmarshalEnum(raw, State_value)
	if err != nil {
		return errors.Wrap(err, "state")
	}
	*s = State(n)
	return nil
}

// Outcome is the arbitrator's decision on a disputed invoice.
type Outcome int32

const (
	OutcomeInvalid Outcome = iota
	OutcomePaid
	OutcomeRefunded
)

var Outcome_name = map[int32]string{
	0: "Invalid",
	1: "Paid",
	2: "Refunded",
}

var Outcome_value = map[string]int32{
	"Invalid":  0,
	"Paid":     1,
	"Refunded": 2,
}

func (o Outcome) String() string {
	return proto.EnumName(Outcome_name, int32(o))
}

func (o Outcome) Validate() error {
	switch o {
	case OutcomePaid, OutcomeRefunded:
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidInput, "outcome %d", o)
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Outcome) UnmarshalJSON(raw []byte) error {
	n, err := unmarshalEnum(raw, Outcome_value)
	if err != nil {
		return errors.Wrap(err, "outcome")
	}
	*o = Outcome(n)
	return nil
}

// unmarshalEnum accepts both the name and the numeric value of an enum.
func unmarshalEnum(raw []byte, values map[string]int32) (int32, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		n, ok := values[name]
		if !ok {
			return 0, errors.Wrapf(errors.ErrInvalidInput, "unknown name %q", name)
		}
		return n, nil
	}
	var n int32
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return n, nil
}

func init() {
	proto.RegisterEnum("invoice.State", State_name, State_value)
	proto.RegisterEnum("invoice.Outcome", Outcome_name, Outcome_value)
	proto.RegisterEnum("invoice.OverpaymentPolicy", OverpaymentPolicy_name, OverpaymentPolicy_value)
}

// Invoice is a payment request held in escrow. Fields are listed in the
// order they are reported by queries.
type Invoice struct {
	Payee              arbee.Address   `protobuf:"bytes,1,opt,name=payee,proto3" json:"payee,omitempty"`
	Payer              arbee.Address   `protobuf:"bytes,2,opt,name=payer,proto3" json:"payer,omitempty"`
	Arbitrator         arbee.Address   `protobuf:"bytes,3,opt,name=arbitrator,proto3" json:"arbitrator,omitempty"`
	Asset              string          `protobuf:"bytes,4,opt,name=asset,proto3" json:"asset,omitempty"`
	Description        string          `protobuf:"bytes,5,opt,name=description,proto3" json:"description,omitempty"`
	Title              string          `protobuf:"bytes,6,opt,name=title,proto3" json:"title,omitempty"`
	RequestedUnits     uint64          `protobuf:"varint,7,opt,name=requested_units,json=requestedUnits,proto3" json:"requested_units,omitempty"`
	CustodiedBalance   uint64          `protobuf:"varint,8,opt,name=custodied_balance,json=custodiedBalance,proto3" json:"custodied_balance"`
	ArbitratorFeeUnits uint64          `protobuf:"varint,9,opt,name=arbitrator_fee_units,json=arbitratorFeeUnits,proto3" json:"arbitrator_fee_units"`
	State              State           `protobuf:"varint,10,opt,name=state,proto3,enum=invoice.State" json:"state"`
	Metadata           *arbee.Metadata `protobuf:"bytes,11,opt,name=metadata,proto3" json:"metadata,omitempty"`
}

var _ orm.Model = (*Invoice)(nil)

// HasArbitrator returns true if disputes on this invoice can be settled.
func (m *Invoice) HasArbitrator() bool {
	return len(m.Arbitrator) != 0
}

// Validate ensures the invoice is consistent. It does not check the
// transition that lead to this state.
func (m *Invoice) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(m.Metadata.Validate(), "metadata"))
	errs = errors.Append(errs, errors.Wrap(m.Payee.Validate(), "payee"))
	errs = errors.Append(errs, errors.Wrap(m.Payer.Validate(), "payer"))
	if m.Payee.Equals(m.Payer) {
		errs = errors.Append(errs, errors.Wrap(errors.ErrInvalidInput, "payer must differ from payee"))
	}
	if m.HasArbitrator() {
		errs = errors.Append(errs, errors.Wrap(m.Arbitrator.Validate(), "arbitrator"))
		if m.Arbitrator.Equals(m.Payee) || m.Arbitrator.Equals(m.Payer) {
			errs = errors.Append(errs, errors.Wrap(errors.ErrInvalidInput, "arbitrator must not be a party"))
		}
	}
	errs = errors.Append(errs, errors.Wrap(custody.ValidateAsset(m.Asset), "asset"))
	errs = errors.Append(errs, validateTexts(m.Title, m.Description))
	errs = errors.Append(errs, validateAmounts(m.RequestedUnits, m.ArbitratorFeeUnits, m.HasArbitrator()))
	if _, ok := State_name[int32(m.State)]; !ok || m.State == StateInvalid {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidModel, "state %d", m.State))
	}
	if m.State.IsTerminal() && m.CustodiedBalance != 0 {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidModel, "%s invoice holds %d units", m.State, m.CustodiedBalance))
	}
	return errs
}

func validateTexts(title, description string) error {
	var errs error
	if len(title) > maxTitleLength {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidInput, "title longer than %d bytes", maxTitleLength))
	}
	if len(description) > maxDescriptionLength {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidInput, "description longer than %d bytes", maxDescriptionLength))
	}
	return errs
}

func validateAmounts(requested, fee uint64, hasArbitrator bool) error {
	if requested == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "requested units must be positive")
	}
	if fee > requested {
		return errors.Wrap(errors.ErrInvalidAmount, "arbitrator fee exceeds requested units")
	}
	if fee != 0 && !hasArbitrator {
		return errors.Wrap(errors.ErrInvalidAmount, "arbitrator fee without an arbitrator")
	}
	return nil
}

func (m *Invoice) Copy() orm.CloneableData {
	return &Invoice{
		Payee:              m.Payee.Clone(),
		Payer:              m.Payer.Clone(),
		Arbitrator:         m.Arbitrator.Clone(),
		Asset:              m.Asset,
		Description:        m.Description,
		Title:              m.Title,
		RequestedUnits:     m.RequestedUnits,
		CustodiedBalance:   m.CustodiedBalance,
		ArbitratorFeeUnits: m.ArbitratorFeeUnits,
		State:              m.State,
		Metadata:           m.Metadata.Copy(),
	}
}

func (m *Invoice) Marshal() ([]byte, error)  { return proto.Marshal((*invoiceWire)(m)) }
func (m *Invoice) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*invoiceWire)(m)) }

type invoiceWire Invoice

func (m *invoiceWire) Reset()         { *m = invoiceWire{} }
func (m *invoiceWire) String() string { return proto.CompactTextString(m) }
func (*invoiceWire) ProtoMessage()    {}

// Account returns the address of the custody account that holds the funds
// deposited into the invoice with given id.
func Account(id uint64) arbee.Address {
	return arbee.SequenceCondition("invoice", id).Address()
}

func (m *Invoice) String() string {
	return fmt.Sprintf("%s invoice of %d %s", m.State, m.RequestedUnits, m.Asset)
}
