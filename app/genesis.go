package app

import (
	"github.com/arbee-network/arbee"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...arbee.Initializer) arbee.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []arbee.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts arbee.Options, kv arbee.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
