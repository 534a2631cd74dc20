package gconf

import (
	"context"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myconfigMsg struct {
	Patch *myconfig
}

func (*myconfigMsg) Path() string             { return "test/myconfig" }
func (*myconfigMsg) Marshal() ([]byte, error) { return nil, nil }
func (*myconfigMsg) Unmarshal([]byte) error   { return nil }
func (m *myconfigMsg) Validate() error        { return nil }

func TestUpdateConfigurationHandler(t *testing.T) {
	cond := arbeetest.NewCondition()

	cases := map[string]struct {
		init           *myconfig
		msg            arbee.Msg
		msgConditions  []arbee.Condition
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantConfig     *myconfig
	}{
		"success": {
			init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg:           &myconfigMsg{Patch: &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"}},
			msgConditions: []arbee.Condition{cond},
			wantConfig:    &myconfig{Owner: cond.Address(), Num: 333, Str: "boing!"},
		},
		"message must be signed by the configuration owner": {
			init:           &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			msgConditions:  []arbee.Condition{arbeetest.NewCondition()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantConfig:     &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
		},
		"zero values are not updating the configuration": {
			init:          &myconfig{Owner: cond.Address(), Num: 5125, Str: "foobar"},
			msg:           &myconfigMsg{Patch: &myconfig{Str: "changed"}},
			msgConditions: []arbee.Condition{cond},
			wantConfig:    &myconfig{Owner: cond.Address(), Num: 5125, Str: "changed"},
		},
		"missing configuration cannot be updated": {
			msg:            &myconfigMsg{Patch: &myconfig{Num: 1}},
			msgConditions:  []arbee.Condition{cond},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrNotFound,
		},
		"patch is required": {
			init:           &myconfig{Owner: cond.Address(), Num: 5125},
			msg:            &myconfigMsg{},
			msgConditions:  []arbee.Condition{cond},
			wantCheckErr:   errors.ErrInvalidState,
			wantDeliverErr: errors.ErrInvalidState,
		},
		"invalid patch result is rejected": {
			init:           &myconfig{Owner: cond.Address(), Num: 5125},
			msg:            &myconfigMsg{Patch: &myconfig{Owner: arbee.Address("short")}},
			msgConditions:  []arbee.Condition{cond},
			wantCheckErr:   errors.ErrInvalidInput,
			wantDeliverErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.init != nil {
				require.NoError(t, Save(db, "mypkg", tc.init))
			}

			auth := &arbeetest.Auth{Signers: tc.msgConditions}
			h := NewUpdateConfigurationHandler("mypkg", func() OwnedConfig { return &myconfig{} }, auth, nil)
			tx := &arbeetest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			require.True(t, tc.wantCheckErr.Is(err), "check: %v", err)
			cache.Discard()

			_, err = h.Deliver(context.Background(), db, tx)
			require.True(t, tc.wantDeliverErr.Is(err), "deliver: %v", err)

			if tc.wantConfig != nil {
				var got myconfig
				require.NoError(t, Load(db, "mypkg", &got))
				assert.Equal(t, *tc.wantConfig, got)
			}
		})
	}
}
