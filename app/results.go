package app

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/gogo/protobuf/proto"
)

// ResultSet holds a list of keys or values returned by a query. Both the key
// and the value field of a query response carry one.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (rs *ResultSet) Marshal() ([]byte, error) { return proto.Marshal((*resultSetWire)(rs)) }
func (rs *ResultSet) Unmarshal(bz []byte) error {
	return proto.Unmarshal(bz, (*resultSetWire)(rs))
}

type resultSetWire ResultSet

func (m *resultSetWire) Reset()         { *m = resultSetWire{} }
func (m *resultSetWire) String() string { return proto.CompactTextString(m) }
func (*resultSetWire) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []arbee.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []arbee.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]arbee.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]arbee.Model, len(kref))
	for i := range mods {
		mods[i] = arbee.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o arbee.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
