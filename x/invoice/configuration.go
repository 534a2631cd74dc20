package invoice

import (
	"encoding/json"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/gconf"
	"github.com/gogo/protobuf/proto"
)

const packageName = "invoice"

// OverpaymentPolicy decides what happens with a deposit that would raise
// the custodied balance above the requested units.
type OverpaymentPolicy int32

const (
	// OverpaymentUnspecified behaves like OverpaymentReject.
	OverpaymentUnspecified OverpaymentPolicy = iota
	// OverpaymentReject fails the deposit with ErrInvalidAmount.
	OverpaymentReject
	// OverpaymentRetain accepts the deposit. The surplus is paid out
	// together with the rest of the balance.
	OverpaymentRetain
)

var OverpaymentPolicy_name = map[int32]string{
	0: "unspecified",
	1: "reject",
	2: "retain",
}

var OverpaymentPolicy_value = map[string]int32{
	"unspecified": 0,
	"reject":      1,
	"retain":      2,
}

func (p OverpaymentPolicy) String() string {
	return proto.EnumName(OverpaymentPolicy_name, int32(p))
}

func (p OverpaymentPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *OverpaymentPolicy) UnmarshalJSON(raw []byte) error {
	n, err := unmarshalEnum(raw, OverpaymentPolicy_value)
	if err != nil {
		return errors.Wrap(err, "overpayment policy")
	}
	*p = OverpaymentPolicy(n)
	return nil
}

// Configuration is the singleton holding the administrative settings of the
// invoice extension.
type Configuration struct {
	Metadata *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	// Owner may read the contract balance and update this configuration.
	Owner             arbee.Address     `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
	OverpaymentPolicy OverpaymentPolicy `protobuf:"varint,3,opt,name=overpayment_policy,json=overpaymentPolicy,proto3,enum=invoice.OverpaymentPolicy" json:"overpayment_policy,omitempty"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() arbee.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(c.Metadata.Validate(), "metadata"))
	errs = errors.Append(errs, errors.Wrap(c.Owner.Validate(), "owner"))
	if _, ok := OverpaymentPolicy_name[int32(c.OverpaymentPolicy)]; !ok {
		errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidInput, "overpayment policy %d", c.OverpaymentPolicy))
	}
	return errs
}

// RetainsOverpayment returns true if deposits above the requested units
// are accepted.
func (c *Configuration) RetainsOverpayment() bool {
	return c.OverpaymentPolicy == OverpaymentRetain
}

func (c *Configuration) Marshal() ([]byte, error) { return proto.Marshal((*configurationWire)(c)) }
func (c *Configuration) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*configurationWire)(c))
}

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

// loadConfiguration returns the stored configuration. Without one, every
// default applies and no one is an owner.
func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, packageName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
