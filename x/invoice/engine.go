package invoice

import (
	"math"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x"
	"github.com/arbee-network/arbee/x/custody"
	"github.com/arbee-network/arbee/x/utils"
)

// Engine drives invoices through their life cycle. Every operation either
// applies completely or leaves the store untouched.
//
// Operations authorize the caller before looking at the invoice state, so a
// stranger always gets ErrUnauthorized.
type Engine struct {
	bucket Bucket
	bank   custody.Controller
	auth   x.Authenticator
}

// NewEngine returns an engine that moves funds through given controller.
func NewEngine(auth x.Authenticator, bank custody.Controller) Engine {
	return Engine{
		bucket: NewBucket(),
		bank:   bank,
		auth:   auth,
	}
}

// Create stores a new invoice requested by the signer and returns its id.
func (e Engine) Create(ctx arbee.Context, db arbee.KVStore, msg *CreateMsg) (uint64, *Notification, error) {
	inv, err := e.newInvoice(ctx, msg)
	if err != nil {
		return 0, nil, err
	}
	var id uint64
	err = utils.Atomically(db, func(db arbee.KVStore) error {
		id, err = e.bucket.Append(db, inv)
		return err
	})
	if err != nil {
		return 0, nil, err
	}
	n := newNotification(KindCreated, id, inv.Payee, inv)
	n.RequestedUnits = inv.RequestedUnits
	return id, n, nil
}

func (e Engine) newInvoice(ctx arbee.Context, msg *CreateMsg) (*Invoice, error) {
	payee := x.MainSigner(ctx, e.auth)
	if payee == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invoice must be signed by the payee")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	arbitrator := msg.Arbitrator
	if len(arbitrator) == 0 {
		arbitrator = nil
	}
	inv := &Invoice{
		Metadata:           &arbee.Metadata{Schema: 1},
		Payee:              payee.Address(),
		Payer:              msg.Payer,
		Arbitrator:         arbitrator,
		Asset:              msg.Asset,
		Description:        msg.Description,
		Title:              msg.Title,
		RequestedUnits:     msg.RequestedUnits,
		ArbitratorFeeUnits: msg.ArbitratorFeeUnits,
		State:              StateNew,
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Deposit pulls funds from the payer into the custody of the invoice. The
// invoice becomes Pending once the requested units are covered.
func (e Engine) Deposit(ctx arbee.Context, db arbee.KVStore, msg *DepositMsg) (*Notification, error) {
	return e.update(db, msg.InvoiceID, func(db arbee.KVStore, inv *Invoice) (*Notification, error) {
		payer, newBalance, err := e.verifyDeposit(ctx, db, inv, msg)
		if err != nil {
			return nil, err
		}
		if err := e.bank.Transfer(db, inv.Payer, Account(msg.InvoiceID), inv.Asset, msg.Amount); err != nil {
			return nil, transferFailed(err, "deposit %d %s", msg.Amount, inv.Asset)
		}
		inv.CustodiedBalance = newBalance
		if inv.CustodiedBalance >= inv.RequestedUnits {
			inv.State = StatePending
		}
		return newNotification(KindFunded, msg.InvoiceID, payer, inv), nil
	})
}

// verifyDeposit returns the authorized payer and the balance after the
// deposit.
func (e Engine) verifyDeposit(ctx arbee.Context, db arbee.ReadOnlyKVStore, inv *Invoice, msg *DepositMsg) (arbee.Address, uint64, error) {
	payer, err := e.requireParty(ctx, inv.Payer)
	if err != nil {
		return nil, 0, err
	}
	if err := requireState(inv, StateNew, StatePending); err != nil {
		return nil, 0, err
	}
	if msg.Amount == 0 {
		return nil, 0, errors.Wrap(errors.ErrInvalidAmount, "deposit amount must be positive")
	}
	if inv.Asset == custody.NativeAsset {
		if msg.Value != msg.Amount {
			return nil, 0, errors.Wrapf(errors.ErrInvalidAmount, "attached value %d does not match amount %d", msg.Value, msg.Amount)
		}
	} else if msg.Value != 0 {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAmount, "native value attached to a %s deposit", inv.Asset)
	}
	if inv.CustodiedBalance > math.MaxUint64-msg.Amount {
		return nil, 0, errors.Wrap(errors.ErrOverflow, "custodied balance")
	}
	newBalance := inv.CustodiedBalance + msg.Amount

	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, 0, err
	}
	if newBalance > inv.RequestedUnits && !conf.RetainsOverpayment() {
		return nil, 0, errors.Wrapf(errors.ErrInvalidAmount, "deposit exceeds requested units by %d", newBalance-inv.RequestedUnits)
	}
	return payer, newBalance, nil
}

// RaiseDispute hands a pending invoice over to its arbitrator.
func (e Engine) RaiseDispute(ctx arbee.Context, db arbee.KVStore, id uint64) (*Notification, error) {
	return e.update(db, id, func(db arbee.KVStore, inv *Invoice) (*Notification, error) {
		party, err := e.verifyDispute(ctx, inv)
		if err != nil {
			return nil, err
		}
		inv.State = StateDisputed
		return newNotification(KindDisputed, id, party, inv), nil
	})
}

func (e Engine) verifyDispute(ctx arbee.Context, inv *Invoice) (arbee.Address, error) {
	party, err := e.requireParty(ctx, inv.Payee, inv.Payer)
	if err != nil {
		return nil, err
	}
	if err := requireState(inv, StatePending); err != nil {
		return nil, err
	}
	if !inv.HasArbitrator() {
		return nil, errors.Wrap(errors.ErrInvalidState, "invoice has no arbitrator")
	}
	return party, nil
}

// ResolveDispute pays the arbitrator's fee and the rest of the custodied
// balance to the party named by the outcome.
func (e Engine) ResolveDispute(ctx arbee.Context, db arbee.KVStore, id uint64, outcome Outcome) (*Notification, error) {
	return e.update(db, id, func(db arbee.KVStore, inv *Invoice) (*Notification, error) {
		arbitrator, err := e.verifyResolve(ctx, inv, outcome)
		if err != nil {
			return nil, err
		}

		winner, final := inv.Payee, StateResolvedPaid
		if outcome == OutcomeRefunded {
			winner, final = inv.Payer, StateResolvedRefunded
		}
		payouts := []Payout{
			{Recipient: winner, Units: inv.CustodiedBalance - inv.ArbitratorFeeUnits},
			{Recipient: inv.Arbitrator, Units: inv.ArbitratorFeeUnits},
		}
		paid, err := e.payout(db, id, inv, payouts...)
		if err != nil {
			return nil, err
		}

		inv.CustodiedBalance = 0
		inv.State = final
		n := newNotification(KindResolved, id, arbitrator, inv)
		n.Outcome = outcome
		n.Payouts = paid
		return n, nil
	})
}

func (e Engine) verifyResolve(ctx arbee.Context, inv *Invoice, outcome Outcome) (arbee.Address, error) {
	arbitrator, err := e.requireParty(ctx, inv.Arbitrator)
	if err != nil {
		return nil, err
	}
	if err := requireState(inv, StateDisputed); err != nil {
		return nil, err
	}
	if err := outcome.Validate(); err != nil {
		return nil, err
	}
	if inv.CustodiedBalance < inv.ArbitratorFeeUnits {
		return nil, errors.Wrapf(errors.ErrInvalidState, "balance %d cannot cover fee %d", inv.CustodiedBalance, inv.ArbitratorFeeUnits)
	}
	return arbitrator, nil
}

// ReleaseOnAgreement pays the whole custodied balance to the payee.
func (e Engine) ReleaseOnAgreement(ctx arbee.Context, db arbee.KVStore, id uint64) (*Notification, error) {
	return e.update(db, id, func(db arbee.KVStore, inv *Invoice) (*Notification, error) {
		payee, err := e.verifyRelease(ctx, inv)
		if err != nil {
			return nil, err
		}
		paid, err := e.payout(db, id, inv, Payout{Recipient: inv.Payee, Units: inv.CustodiedBalance})
		if err != nil {
			return nil, err
		}
		inv.CustodiedBalance = 0
		inv.State = StateResolvedPaid
		n := newNotification(KindReleased, id, payee, inv)
		n.Payouts = paid
		return n, nil
	})
}

func (e Engine) verifyRelease(ctx arbee.Context, inv *Invoice) (arbee.Address, error) {
	payee, err := e.requireParty(ctx, inv.Payee)
	if err != nil {
		return nil, err
	}
	if err := requireState(inv, StatePending); err != nil {
		return nil, err
	}
	return payee, nil
}

// Cancel withdraws an invoice that is not fully funded. Any partial deposit
// is refunded to the payer.
func (e Engine) Cancel(ctx arbee.Context, db arbee.KVStore, id uint64) (*Notification, error) {
	return e.update(db, id, func(db arbee.KVStore, inv *Invoice) (*Notification, error) {
		party, err := e.verifyCancel(ctx, inv)
		if err != nil {
			return nil, err
		}
		paid, err := e.payout(db, id, inv, Payout{Recipient: inv.Payer, Units: inv.CustodiedBalance})
		if err != nil {
			return nil, err
		}
		inv.CustodiedBalance = 0
		inv.State = StateCancelled
		n := newNotification(KindCancelled, id, party, inv)
		n.Payouts = paid
		return n, nil
	})
}

func (e Engine) verifyCancel(ctx arbee.Context, inv *Invoice) (arbee.Address, error) {
	party, err := e.requireParty(ctx, inv.Payee, inv.Payer)
	if err != nil {
		return nil, err
	}
	if err := requireState(inv, StateNew); err != nil {
		return nil, err
	}
	return party, nil
}

// Count returns the number of invoices ever created.
func (e Engine) Count(db arbee.ReadOnlyKVStore) (uint64, error) {
	return e.bucket.Count(db)
}

// Get returns the invoice with given id.
func (e Engine) Get(db arbee.ReadOnlyKVStore, id uint64) (*Invoice, error) {
	return e.bucket.Get(db, id)
}

// ContractBalance returns the sum of the balances held in custody by all
// invoices. A non empty asset restricts the sum to invoices of that asset.
// Only the configuration owner may read it.
func (e Engine) ContractBalance(ctx arbee.Context, db arbee.ReadOnlyKVStore, asset string) (uint64, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return 0, err
	}
	if len(conf.Owner) == 0 || !e.auth.HasAddress(ctx, conf.Owner) {
		return 0, errors.Wrap(errors.ErrUnauthorized, "contract balance is only available to the owner")
	}

	count, err := e.bucket.Count(db)
	if err != nil {
		return 0, err
	}
	var total uint64
	for id := uint64(0); id < count; id++ {
		inv, err := e.bucket.Get(db, id)
		if err != nil {
			return 0, err
		}
		if asset != "" && inv.Asset != asset {
			continue
		}
		if total > math.MaxUint64-inv.CustodiedBalance {
			return 0, errors.Wrap(errors.ErrOverflow, "contract balance")
		}
		total += inv.CustodiedBalance
	}
	return total, nil
}

// update applies fn to the invoice with given id inside a savepoint. The
// invoice is saved and the notification returned only if fn succeeds.
func (e Engine) update(db arbee.KVStore, id uint64, fn func(arbee.KVStore, *Invoice) (*Notification, error)) (*Notification, error) {
	var n *Notification
	err := utils.Atomically(db, func(db arbee.KVStore) error {
		_, err := e.bucket.Update(db, id, func(inv *Invoice) (err error) {
			n, err = fn(db, inv)
			return err
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// payout moves funds out of the custody of the invoice. Zero payouts are
// skipped and the executed ones returned.
func (e Engine) payout(db arbee.KVStore, id uint64, inv *Invoice, payouts ...Payout) ([]Payout, error) {
	var paid []Payout
	for _, p := range payouts {
		if p.Units == 0 {
			continue
		}
		if err := e.bank.Transfer(db, Account(id), p.Recipient, inv.Asset, p.Units); err != nil {
			return nil, transferFailed(err, "pay %d %s to %s", p.Units, inv.Asset, p.Recipient)
		}
		paid = append(paid, p)
	}
	return paid, nil
}

// requireParty returns the first of the given parties that signed the
// request.
func (e Engine) requireParty(ctx arbee.Context, parties ...arbee.Address) (arbee.Address, error) {
	if addr := x.AnyAddress(ctx, e.auth, parties...); addr != nil {
		return addr, nil
	}
	return nil, errors.Wrap(errors.ErrUnauthorized, "caller has no role in this invoice")
}

func requireState(inv *Invoice, allowed ...State) error {
	for _, s := range allowed {
		if inv.State == s {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInvalidState, "operation not allowed in %s state", inv.State)
}

// transferFailed keeps the cause reported by the custody controller while
// classifying the error as a failed transfer.
func transferFailed(err error, format string, args ...interface{}) error {
	return errors.Append(errors.ErrTransferFailed.Newf(format, args...), err)
}
