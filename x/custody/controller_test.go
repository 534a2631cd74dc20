package custody

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer(t *testing.T) {
	alice := arbeetest.NewCondition().Address()
	bob := arbeetest.NewCondition().Address()

	cases := map[string]struct {
		issue     uint64
		asset     string
		units     uint64
		wantErr   *errors.Error
		wantAlice uint64
		wantBob   uint64
	}{
		"full balance": {
			issue:     100,
			asset:     NativeAsset,
			units:     100,
			wantAlice: 0,
			wantBob:   100,
		},
		"partial balance": {
			issue:     100,
			asset:     NativeAsset,
			units:     30,
			wantAlice: 70,
			wantBob:   30,
		},
		"insufficient funds": {
			issue:     10,
			asset:     NativeAsset,
			units:     11,
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: 10,
		},
		"other asset is not available": {
			issue:     10,
			asset:     "USDT",
			units:     1,
			wantErr:   errors.ErrInsufficientAmount,
			wantAlice: 10,
		},
		"zero units": {
			issue:     10,
			asset:     NativeAsset,
			wantErr:   errors.ErrInvalidAmount,
			wantAlice: 10,
		},
		"malformed asset": {
			issue:     10,
			asset:     "not an asset",
			units:     1,
			wantErr:   errors.ErrInvalidInput,
			wantAlice: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			require.NoError(t, ctrl.Issue(db, alice, NativeAsset, tc.issue))

			err := ctrl.Transfer(db, alice, bob, tc.asset, tc.units)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)

			got, err := ctrl.Balance(db, alice, NativeAsset)
			require.NoError(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob, NativeAsset)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestEmptyWalletIsRemoved(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := arbeetest.NewCondition().Address()
	bob := arbeetest.NewCondition().Address()

	require.NoError(t, ctrl.Issue(db, alice, "USDT", 5))
	require.NoError(t, ctrl.Transfer(db, alice, bob, "USDT", 5))
	assert.True(t, errors.ErrNotFound.Is(NewBucket().Has(db, alice)))
	require.NoError(t, NewBucket().Has(db, bob))

	require.NoError(t, ctrl.Transfer(db, bob, alice, "USDT", 5))
	assert.True(t, errors.ErrNotFound.Is(NewBucket().Has(db, bob)))
	require.NoError(t, NewBucket().Has(db, alice))
}

func TestIssueOverflow(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := arbeetest.NewCondition().Address()

	require.NoError(t, ctrl.Issue(db, alice, NativeAsset, math.MaxUint64))
	err := ctrl.Issue(db, alice, NativeAsset, 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestWalletBalancesStaySorted(t *testing.T) {
	w := NewWallet()
	require.NoError(t, w.Add("b", 1))
	require.NoError(t, w.Add("a", 2))
	require.NoError(t, w.Add("c", 3))
	require.NoError(t, w.Add("a", 1))
	require.NoError(t, w.Validate())

	assert.Equal(t, []*Balance{
		{Asset: "a", Units: 3},
		{Asset: "b", Units: 1},
		{Asset: "c", Units: 3},
	}, w.Balances)

	require.NoError(t, w.Subtract("b", 1))
	assert.Equal(t, uint64(0), w.Units("b"))
	assert.Len(t, w.Balances, 2)

	bz, err := w.Marshal()
	require.NoError(t, err)
	var loaded Wallet
	require.NoError(t, loaded.Unmarshal(bz))
	assert.Equal(t, w.Balances, loaded.Balances)

	unsorted := &Wallet{
		Metadata: &arbee.Metadata{Schema: 1},
		Balances: []*Balance{{Asset: "b", Units: 1}, {Asset: "a", Units: 1}},
	}
	assert.True(t, errors.ErrInvalidModel.Is(unsorted.Validate()))
}

func TestGenesis(t *testing.T) {
	alice := arbeetest.NewCondition().Address()
	raw, err := json.Marshal(map[string]interface{}{
		"custody": []interface{}{
			map[string]interface{}{
				"address": alice,
				"balances": []interface{}{
					map[string]interface{}{"asset": NativeAsset, "units": 500},
					map[string]interface{}{"asset": "USDT", "units": 20},
				},
			},
		},
	})
	require.NoError(t, err)
	var opts arbee.Options
	require.NoError(t, json.Unmarshal(raw, &opts))

	db := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, db))

	ctrl := NewController()
	got, err := ctrl.Balance(db, alice, NativeAsset)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), got)
	got, err = ctrl.Balance(db, alice, "USDT")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), got)

	qr := arbee.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/wallets").Query(db, arbee.KeyQueryMod, alice)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var w Wallet
	require.NoError(t, w.Unmarshal(res[0].Value))
	assert.Len(t, w.Balances, 2)
}
