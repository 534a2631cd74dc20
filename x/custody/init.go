package custody

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

const optKey = "custody"

// GenesisAccount is used to parse the json from genesis file.
// Address accepts hex, bech32 and condition notations.
type GenesisAccount struct {
	Address  arbee.Address `json:"address"`
	Balances []Balance     `json:"balances"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ arbee.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts arbee.Options, kv arbee.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, b := range acct.Balances {
			if err := ctrl.Issue(kv, acct.Address, b.Asset, b.Units); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}

// RegisterQuery will register the wallets as "/wallets"
func RegisterQuery(qr arbee.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
