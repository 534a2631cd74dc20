package app

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp. Notifications of every successfully delivered
// transaction are passed to the notifier.
type BaseApp struct {
	*StoreApp
	decoder  arbee.TxDecoder
	handler  arbee.Handler
	notifier arbee.Notifier
	debug    bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application. A nil notifier drops all
// notifications.
func NewBaseApp(
	store *StoreApp,
	decoder arbee.TxDecoder,
	handler arbee.Handler,
	notifier arbee.Notifier,
	debug bool,
) BaseApp {
	if notifier == nil {
		notifier = arbee.NopNotifier
	}
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		notifier: notifier,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return arbee.DeliverTxError(err, b.debug)
	}

	ctx := arbee.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", arbee.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err == nil {
		for _, n := range res.Notifications {
			res.Tags = append(res.Tags, n.Tags()...)
		}
		b.notify(ctx, res.Notifications)
	}
	return arbee.DeliverOrError(res, err, b.debug)
}

// notify hands every notification to the notifier. The transaction is
// already applied, so a failure is only logged.
func (b BaseApp) notify(ctx arbee.Context, ns []arbee.Notification) {
	for _, n := range ns {
		if err := b.notifier.Notify(ctx, n); err != nil {
			arbee.GetLogger(ctx).Error("cannot notify",
				"kind", n.Kind(),
				"err", err)
		}
	}
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return arbee.CheckTxError(err, b.debug)
	}

	ctx := arbee.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", arbee.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return arbee.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx arbee.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
