package invoice

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/gconf"
)

// Initializer loads the configuration of the invoice extension from the
// genesis file. A genesis without one leaves the extension without an
// owner and with the default overpayment policy.
type Initializer struct{}

var _ arbee.Initializer = Initializer{}

func (Initializer) FromGenesis(opts arbee.Options, db arbee.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, packageName, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}
