/*
Package app links together all the various components
to construct the arbeed app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/app"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store/iavl"
	"github.com/arbee-network/arbee/x"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/arbee-network/arbee/x/invoice"
	"github.com/arbee-network/arbee/x/sigs"
	"github.com/arbee-network/arbee/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all invoice messages.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	invoice.RegisterRoutes(r, authFn, custody.NewController())
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/invoices", "/wallets" and "/auth"
func QueryRouter() arbee.QueryRouter {
	r := arbee.NewQueryRouter()
	r.RegisterAll(
		invoice.RegisterQuery,
		custody.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all extensions.
func Initializers() arbee.Initializer {
	return app.ChainInitializers(
		custody.Initializer{},
		invoice.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() arbee.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h arbee.Handler, tx arbee.TxDecoder,
	dbPath string, notifier arbee.Notifier, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create database instance")
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "cannot create store app")
	}
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, notifier, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (arbee.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid database name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
