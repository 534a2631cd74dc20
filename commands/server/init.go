package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/crypto"
	"github.com/arbee-network/arbee/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	flagIgnore  = "i"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func parseInitFlags(args []string) (bool, []string, error) {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.BoolVar(&force, flagIgnore, false, "ignore previous initialization")
	err := initFlags.Parse(args)
	return force, initFlags.Args(), err
}

// InitCmd will add the app state to the tendermint genesis file found
// under home. The genesis file must be created first by running
// "tendermint init" with the same home directory.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	force, rest, err := parseInitFlags(args)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "%s: run tendermint init first", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if len(doc[appStateKey]) > 0 && !force {
		return errors.Wrap(errors.ErrDuplicate, "app_state already set, use -i to overwrite")
	}

	options, err := gen(rest)
	if err != nil {
		return errors.Wrap(err, "generate app state")
	}
	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

type keyOutput struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a new public key, along with a
// json representation of the keys. You can give funds to this address
// and import the keys in a client to use them.
func GenerateCoinKey() (arbee.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()

	out := keyOutput{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return pubKey.Address(), string(keys), nil
}
