package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
)

// ValidateGenesis loads the app state of every given genesis file into a
// throwaway store and returns the first failure.
func ValidateGenesis(ini arbee.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "usage: cmd validate <path to genesis.json>...")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini arbee.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrap(errors.ErrNotFound, err.Error())
	}

	var genesis struct {
		State arbee.Options `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	if len(genesis.State) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(genesis.State, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
