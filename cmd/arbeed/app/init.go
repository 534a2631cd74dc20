package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/commands/server"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/arbee-network/arbee/x/invoice"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// genesisUnits is what the generated account holds after genesis.
const genesisUnits = 123456789

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The same account owns the invoice
// configuration.
//
// Optional arguments are the asset and the hex address of the account.
func GenInitOptions(args []string) (json.RawMessage, error) {
	asset := custody.NativeAsset
	if len(args) > 0 {
		asset = args[0]
		if err := custody.ValidateAsset(asset); err != nil {
			return nil, errors.Wrap(err, "asset")
		}
	}

	var addr arbee.Address
	if len(args) > 1 {
		var err error
		addr, err = arbee.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "address")
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the key
		var secret string
		var err error
		addr, secret, err = server.GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(secret)
	}

	opts := map[string]interface{}{
		"custody": []custody.GenesisAccount{{
			Address:  addr,
			Balances: []custody.Balance{{Asset: asset, Units: genesisUnits}},
		}},
		"conf": map[string]interface{}{
			"invoice": invoice.Configuration{
				Metadata:          &arbee.Metadata{Schema: 1},
				Owner:             addr,
				OverpaymentPolicy: invoice.OverpaymentReject,
			},
		},
	}
	return json.MarshalIndent(opts, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, notifier arbee.Notifier, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "arbee.db")
	}

	application, err := Application("arbeed", Stack(), TxDecoder, dbPath, notifier, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}
