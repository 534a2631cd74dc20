package invoice

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/gconf"
	"github.com/arbee-network/arbee/x"
	"github.com/arbee-network/arbee/x/custody"
)

const (
	createInvoiceCost  int64 = 300
	depositInvoiceCost int64 = 100
	disputeInvoiceCost int64 = 50
	settleInvoiceCost  int64 = 100
)

// RegisterQuery will register the invoices as "/invoices", the party
// indexes as "/invoices/<role>" and the counter as "/invoices/count".
func RegisterQuery(qr arbee.QueryRouter) {
	NewBucket().Register("invoices", qr)
	qr.Register("/invoices/count", arbee.QueryHandlerFunc(countQuery))
}

// RegisterRoutes will instantiate and register all handlers in this package.
func RegisterRoutes(r arbee.Registry, auth x.Authenticator, bank custody.Controller) {
	engine := NewEngine(auth, bank)
	r.Handle(pathCreateMsg, CreateHandler{engine: engine})
	r.Handle(pathDepositMsg, DepositHandler{engine: engine})
	r.Handle(pathDisputeMsg, DisputeHandler{engine: engine})
	r.Handle(pathResolveMsg, ResolveHandler{engine: engine})
	r.Handle(pathReleaseMsg, ReleaseHandler{engine: engine})
	r.Handle(pathCancelMsg, CancelHandler{engine: engine})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(
		packageName,
		func() gconf.OwnedConfig { return &Configuration{} },
		auth,
		func(owner arbee.Address) arbee.Notification {
			return ConfigurationNotification{Owner: owner}
		},
	))
}

// CreateHandler creates invoices.
type CreateHandler struct {
	engine Engine
}

var _ arbee.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg CreateMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.engine.newInvoice(ctx, &msg); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: createInvoiceCost}, nil
}

// Deliver returns the id of the new invoice as the result data.
func (h CreateHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg CreateMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	id, n, err := h.engine.Create(ctx, db, &msg)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(id), n), nil
}

// DepositHandler funds invoices.
type DepositHandler struct {
	engine Engine
}

var _ arbee.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg DepositMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inv, err := h.engine.Get(db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	if _, _, err := h.engine.verifyDeposit(ctx, db, inv, &msg); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: depositInvoiceCost}, nil
}

func (h DepositHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg DepositMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	n, err := h.engine.Deposit(ctx, db, &msg)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(msg.InvoiceID), n), nil
}

// DisputeHandler raises disputes.
type DisputeHandler struct {
	engine Engine
}

var _ arbee.Handler = DisputeHandler{}

func (h DisputeHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg DisputeMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inv, err := h.engine.Get(db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := h.engine.verifyDispute(ctx, inv); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: disputeInvoiceCost}, nil
}

func (h DisputeHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg DisputeMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	n, err := h.engine.RaiseDispute(ctx, db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(msg.InvoiceID), n), nil
}

// ResolveHandler settles disputes.
type ResolveHandler struct {
	engine Engine
}

var _ arbee.Handler = ResolveHandler{}

func (h ResolveHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg ResolveMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inv, err := h.engine.Get(db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := h.engine.verifyResolve(ctx, inv, msg.Outcome); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: settleInvoiceCost}, nil
}

func (h ResolveHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg ResolveMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	n, err := h.engine.ResolveDispute(ctx, db, msg.InvoiceID, msg.Outcome)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(msg.InvoiceID), n), nil
}

// ReleaseHandler releases funds on agreement.
type ReleaseHandler struct {
	engine Engine
}

var _ arbee.Handler = ReleaseHandler{}

func (h ReleaseHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg ReleaseMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inv, err := h.engine.Get(db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := h.engine.verifyRelease(ctx, inv); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: settleInvoiceCost}, nil
}

func (h ReleaseHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg ReleaseMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	n, err := h.engine.ReleaseOnAgreement(ctx, db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(msg.InvoiceID), n), nil
}

// CancelHandler cancels invoices that are not funded yet.
type CancelHandler struct {
	engine Engine
}

var _ arbee.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	var msg CancelMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	inv, err := h.engine.Get(db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := h.engine.verifyCancel(ctx, inv); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{GasAllocated: settleInvoiceCost}, nil
}

func (h CancelHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	var msg CancelMsg
	if err := arbee.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	n, err := h.engine.Cancel(ctx, db, msg.InvoiceID)
	if err != nil {
		return nil, err
	}
	return deliverResult(IDKey(msg.InvoiceID), n), nil
}

func deliverResult(data []byte, n *Notification) *arbee.DeliverResult {
	return &arbee.DeliverResult{
		Data:          data,
		Notifications: []arbee.Notification{n},
	}
}

// countQuery reports the number of invoices as an 8 byte big endian value.
func countQuery(db arbee.ReadOnlyKVStore, mod string, data []byte) ([]arbee.Model, error) {
	if mod != arbee.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	count, err := NewBucket().Count(db)
	if err != nil {
		return nil, err
	}
	return []arbee.Model{arbee.Pair([]byte(SequenceName), IDKey(count))}, nil
}
