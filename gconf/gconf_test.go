package gconf

import (
	"encoding/json"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myconfig struct {
	Owner arbee.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/arbee-network/arbee.Address" json:"owner,omitempty"`
	Num   int64         `protobuf:"varint,2,opt,name=num,proto3" json:"num,omitempty"`
	Str   string        `protobuf:"bytes,3,opt,name=str,proto3" json:"str,omitempty"`
}

func (c *myconfig) GetOwner() arbee.Address { return c.Owner }

func (c *myconfig) Validate() error {
	if c.Num < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "negative num")
	}
	return c.Owner.Validate()
}

func (c *myconfig) Marshal() ([]byte, error)  { return proto.Marshal((*myconfigWire)(c)) }
func (c *myconfig) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*myconfigWire)(c)) }

type myconfigWire myconfig

func (m *myconfigWire) Reset()         { *m = myconfigWire{} }
func (m *myconfigWire) String() string { return proto.CompactTextString(m) }
func (*myconfigWire) ProtoMessage()    {}

func TestSaveLoad(t *testing.T) {
	owner := arbee.NewAddress([]byte("owner"))

	cases := map[string]struct {
		conf        *myconfig
		wantSaveErr *errors.Error
		wantLoadErr *errors.Error
	}{
		"valid configuration": {
			conf: &myconfig{Owner: owner, Num: 42, Str: "foo"},
		},
		"invalid address cannot be saved": {
			conf:        &myconfig{Owner: arbee.Address("short"), Num: 1},
			wantSaveErr: errors.ErrInvalidInput,
			wantLoadErr: errors.ErrNotFound,
		},
		"invalid number cannot be saved": {
			conf:        &myconfig{Owner: owner, Num: -1},
			wantSaveErr: errors.ErrInvalidInput,
			wantLoadErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "mypkg", tc.conf)
			require.True(t, tc.wantSaveErr.Is(err), "unexpected save error: %v", err)

			var got myconfig
			err = Load(db, "mypkg", &got)
			require.True(t, tc.wantLoadErr.Is(err), "unexpected load error: %v", err)
			if tc.wantLoadErr == nil {
				assert.Equal(t, *tc.conf, got)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	owner := arbee.NewAddress([]byte("owner"))
	raw, err := json.Marshal(map[string]interface{}{
		"conf": map[string]interface{}{
			"mypkg": map[string]interface{}{"owner": owner, "num": 7},
		},
	})
	require.NoError(t, err)

	var opts arbee.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, InitConfig(db, opts, "mypkg", &myconfig{}))

	var got myconfig
	require.NoError(t, Load(db, "mypkg", &got))
	assert.Equal(t, owner, got.Owner)
	assert.Equal(t, int64(7), got.Num)

	err = InitConfig(db, opts, "otherpkg", &myconfig{})
	assert.True(t, errors.ErrNotFound.Is(err))
}
