package invoice

import (
	"context"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/gconf"
	"github.com/arbee-network/arbee/store"
	"github.com/arbee-network/arbee/x/custody"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initialFunds = 100

type fixture struct {
	db     store.CacheableKVStore
	auth   *arbeetest.CtxAuth
	bank   custody.BaseController
	engine Engine

	owner      arbee.Condition
	payee      arbee.Condition
	payer      arbee.Condition
	arbitrator arbee.Condition
	stranger   arbee.Condition
}

func newFixture(t testing.TB, policy OverpaymentPolicy) *fixture {
	t.Helper()
	f := &fixture{
		db:         store.MemStore(),
		auth:       &arbeetest.CtxAuth{Key: "auth"},
		bank:       custody.NewController(),
		owner:      arbeetest.NewCondition(),
		payee:      arbeetest.NewCondition(),
		payer:      arbeetest.NewCondition(),
		arbitrator: arbeetest.NewCondition(),
		stranger:   arbeetest.NewCondition(),
	}
	f.engine = NewEngine(f.auth, f.bank)

	conf := &Configuration{
		Metadata:          &arbee.Metadata{Schema: 1},
		Owner:             f.owner.Address(),
		OverpaymentPolicy: policy,
	}
	require.NoError(t, gconf.Save(f.db, packageName, conf))
	for _, asset := range []string{custody.NativeAsset, "USDT"} {
		require.NoError(t, f.bank.Issue(f.db, f.payer.Address(), asset, initialFunds))
		require.NoError(t, f.bank.Issue(f.db, f.stranger.Address(), asset, initialFunds))
	}
	return f
}

func (f *fixture) as(c arbee.Condition) arbee.Context {
	return f.auth.SetConditions(context.Background(), c)
}

func (f *fixture) createMsg(asset string, units, fee uint64) *CreateMsg {
	return &CreateMsg{
		Metadata:           &arbee.Metadata{Schema: 1},
		Asset:              asset,
		RequestedUnits:     units,
		Title:              "logo design",
		Description:        "three iterations of a vector logo",
		Payer:              f.payer.Address(),
		Arbitrator:         f.arbitrator.Address(),
		ArbitratorFeeUnits: fee,
	}
}

func (f *fixture) create(t testing.TB, asset string, units, fee uint64) uint64 {
	t.Helper()
	id, _, err := f.engine.Create(f.as(f.payee), f.db, f.createMsg(asset, units, fee))
	require.NoError(t, err)
	return id
}

func (f *fixture) deposit(t testing.TB, id, amount uint64) {
	t.Helper()
	_, err := f.engine.Deposit(f.as(f.payer), f.db, depositOf(id, amount))
	require.NoError(t, err)
}

func (f *fixture) dispute(t testing.TB, id uint64) {
	t.Helper()
	_, err := f.engine.RaiseDispute(f.as(f.payer), f.db, id)
	require.NoError(t, err)
}

func (f *fixture) wallet(t testing.TB, addr arbee.Address, asset string) uint64 {
	t.Helper()
	units, err := f.bank.Balance(f.db, addr, asset)
	require.NoError(t, err)
	return units
}

func (f *fixture) invoice(t testing.TB, id uint64) *Invoice {
	t.Helper()
	inv, err := f.engine.Get(f.db, id)
	require.NoError(t, err)
	// Custody account always holds exactly the custodied balance.
	require.Equal(t, inv.CustodiedBalance, f.wallet(t, Account(id), inv.Asset))
	return inv
}

func (f *fixture) contractBalance(t testing.TB) uint64 {
	t.Helper()
	total, err := f.engine.ContractBalance(f.as(f.owner), f.db, "")
	require.NoError(t, err)
	return total
}

func depositOf(id, amount uint64) *DepositMsg {
	return &DepositMsg{
		Metadata:  &arbee.Metadata{Schema: 1},
		InvoiceID: id,
		Amount:    amount,
		Value:     amount,
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	Convey("Given a payee, a payer and an arbitrator", t, func() {
		f := newFixture(t, OverpaymentReject)

		Convey("When the payee requests 10 native units with a fee of 2", func() {
			id := f.create(t, custody.NativeAsset, 10, 2)

			Convey("The invoice is the first one and waits for funds", func() {
				So(id, ShouldEqual, uint64(0))
				inv := f.invoice(t, id)
				So(inv.State, ShouldEqual, StateNew)
				So(inv.CustodiedBalance, ShouldEqual, uint64(0))
				So(f.contractBalance(t), ShouldEqual, uint64(0))
			})

			Convey("When the payer deposits 10 units", func() {
				f.deposit(t, id, 10)

				Convey("The invoice is pending and funds are in custody", func() {
					inv := f.invoice(t, id)
					So(inv.State, ShouldEqual, StatePending)
					So(inv.CustodiedBalance, ShouldEqual, uint64(10))
					So(f.contractBalance(t), ShouldEqual, uint64(10))
				})

				Convey("A deposit by someone else is rejected", func() {
					_, err := f.engine.Deposit(f.as(f.stranger), f.db, depositOf(id, 1))
					So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
					So(f.contractBalance(t), ShouldEqual, uint64(10))
					So(f.invoice(t, id).CustodiedBalance, ShouldEqual, uint64(10))
				})

				Convey("When the payee releases on agreement", func() {
					_, err := f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, id)
					So(err, ShouldBeNil)

					Convey("The payee is paid in full", func() {
						inv := f.invoice(t, id)
						So(inv.State, ShouldEqual, StateResolvedPaid)
						So(inv.CustodiedBalance, ShouldEqual, uint64(0))
						So(f.contractBalance(t), ShouldEqual, uint64(0))
						So(f.wallet(t, f.payee.Address(), custody.NativeAsset), ShouldEqual, uint64(10))
					})
				})

				Convey("When the payer disputes and the arbitrator refunds", func() {
					f.dispute(t, id)
					So(f.invoice(t, id).State, ShouldEqual, StateDisputed)

					_, err := f.engine.ResolveDispute(f.as(f.arbitrator), f.db, id, OutcomeRefunded)
					So(err, ShouldBeNil)

					Convey("The payer gets the balance minus the fee", func() {
						inv := f.invoice(t, id)
						So(inv.State, ShouldEqual, StateResolvedRefunded)
						So(inv.CustodiedBalance, ShouldEqual, uint64(0))
						So(f.wallet(t, f.payer.Address(), custody.NativeAsset), ShouldEqual, uint64(initialFunds-10+8))
						So(f.wallet(t, f.arbitrator.Address(), custody.NativeAsset), ShouldEqual, uint64(2))
						So(f.wallet(t, f.payee.Address(), custody.NativeAsset), ShouldEqual, uint64(0))
					})
				})
			})
		})
	})
}

func TestResolvePaid(t *testing.T) {
	f := newFixture(t, OverpaymentReject)
	id := f.create(t, "USDT", 50, 5)
	_, err := f.engine.Deposit(f.as(f.payer), f.db, &DepositMsg{InvoiceID: id, Amount: 50})
	require.NoError(t, err)
	_, err = f.engine.RaiseDispute(f.as(f.payee), f.db, id)
	require.NoError(t, err)

	n, err := f.engine.ResolveDispute(f.as(f.arbitrator), f.db, id, OutcomePaid)
	require.NoError(t, err)
	assert.Equal(t, KindResolved, n.Kind())
	assert.Equal(t, OutcomePaid, n.Outcome)
	assert.Equal(t, []Payout{
		{Recipient: f.payee.Address(), Units: 45},
		{Recipient: f.arbitrator.Address(), Units: 5},
	}, n.Payouts)

	assert.Equal(t, StateResolvedPaid, f.invoice(t, id).State)
	assert.EqualValues(t, 45, f.wallet(t, f.payee.Address(), "USDT"))
	assert.EqualValues(t, 5, f.wallet(t, f.arbitrator.Address(), "USDT"))
	assert.EqualValues(t, initialFunds-50, f.wallet(t, f.payer.Address(), "USDT"))
}

func TestSequentialIDs(t *testing.T) {
	f := newFixture(t, OverpaymentReject)

	count, err := f.engine.Count(f.db)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	_, err = f.engine.Get(f.db, 0)
	assert.True(t, errors.ErrNotFound.Is(err))

	for want := uint64(0); want < 5; want++ {
		assert.Equal(t, want, f.create(t, custody.NativeAsset, 10+want, 0))
	}
	count, err = f.engine.Count(f.db)
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	for id := uint64(0); id < 5; id++ {
		inv := f.invoice(t, id)
		assert.Equal(t, 10+id, inv.RequestedUnits)
		assert.Equal(t, f.payee.Address(), inv.Payee)
	}
	_, err = f.engine.Get(f.db, 5)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestCreate(t *testing.T) {
	cases := map[string]struct {
		signed  func(f *fixture) arbee.Context
		msg     func(f *fixture) *CreateMsg
		wantErr *errors.Error
	}{
		"native with arbitrator": {
			msg: func(f *fixture) *CreateMsg { return f.createMsg(custody.NativeAsset, 10, 2) },
		},
		"token without arbitrator": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg("USDT", 10, 0)
				m.Arbitrator = nil
				return m
			},
		},
		"fee equal to requested units": {
			msg: func(f *fixture) *CreateMsg { return f.createMsg(custody.NativeAsset, 10, 10) },
		},
		"no signature": {
			signed:  func(f *fixture) arbee.Context { return context.Background() },
			msg:     func(f *fixture) *CreateMsg { return f.createMsg(custody.NativeAsset, 10, 2) },
			wantErr: errors.ErrUnauthorized,
		},
		"zero requested units": {
			msg:     func(f *fixture) *CreateMsg { return f.createMsg(custody.NativeAsset, 0, 0) },
			wantErr: errors.ErrInvalidAmount,
		},
		"fee above requested units": {
			msg:     func(f *fixture) *CreateMsg { return f.createMsg(custody.NativeAsset, 10, 11) },
			wantErr: errors.ErrInvalidAmount,
		},
		"fee without arbitrator": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 1)
				m.Arbitrator = nil
				return m
			},
			wantErr: errors.ErrInvalidAmount,
		},
		"payer missing": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 2)
				m.Payer = nil
				return m
			},
			wantErr: errors.ErrEmpty,
		},
		"payer is the payee": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 2)
				m.Payer = f.payee.Address()
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"payee arbitrates": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 2)
				m.Arbitrator = f.payee.Address()
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"title too long": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 2)
				m.Title = string(make([]byte, maxTitleLength+1))
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"description too long": {
			msg: func(f *fixture) *CreateMsg {
				m := f.createMsg(custody.NativeAsset, 10, 2)
				m.Description = string(make([]byte, maxDescriptionLength+1))
				return m
			},
			wantErr: errors.ErrInvalidInput,
		},
		"malformed asset": {
			msg:     func(f *fixture) *CreateMsg { return f.createMsg("$$$", 10, 2) },
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, OverpaymentReject)
			ctx := f.as(f.payee)
			if tc.signed != nil {
				ctx = tc.signed(f)
			}
			msg := tc.msg(f)

			id, n, err := f.engine.Create(ctx, f.db, msg)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			count, cerr := f.engine.Count(f.db)
			require.NoError(t, cerr)
			if tc.wantErr != nil {
				assert.EqualValues(t, 0, count)
				return
			}
			assert.EqualValues(t, 1, count)
			assert.Equal(t, KindCreated, n.Kind())
			assert.Equal(t, msg.RequestedUnits, n.RequestedUnits)

			inv := f.invoice(t, id)
			assert.Equal(t, StateNew, inv.State)
			assert.Equal(t, f.payee.Address(), inv.Payee)
			assert.Equal(t, msg.Payer, inv.Payer)
			assert.Equal(t, msg.Title, inv.Title)
			assert.Equal(t, msg.ArbitratorFeeUnits, inv.ArbitratorFeeUnits)
		})
	}
}

func TestDeposit(t *testing.T) {
	cases := map[string]struct {
		policy      OverpaymentPolicy
		asset       string
		prepare     func(t testing.TB, f *fixture, id uint64)
		signer      func(f *fixture) arbee.Condition
		msg         func(id uint64) *DepositMsg
		wantErr     *errors.Error
		wantState   State
		wantBalance uint64
	}{
		"partial deposit keeps the invoice new": {
			asset:       custody.NativeAsset,
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 4) },
			wantState:   StateNew,
			wantBalance: 4,
		},
		"installments complete the invoice": {
			asset:       custody.NativeAsset,
			prepare:     func(t testing.TB, f *fixture, id uint64) { f.deposit(t, id, 4) },
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 6) },
			wantState:   StatePending,
			wantBalance: 10,
		},
		"token deposit": {
			asset: "USDT",
			msg: func(id uint64) *DepositMsg {
				return &DepositMsg{Metadata: &arbee.Metadata{Schema: 1}, InvoiceID: id, Amount: 10}
			},
			wantState:   StatePending,
			wantBalance: 10,
		},
		"overpayment is rejected by default": {
			policy:      OverpaymentUnspecified,
			asset:       custody.NativeAsset,
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 11) },
			wantErr:     errors.ErrInvalidAmount,
			wantState:   StateNew,
			wantBalance: 0,
		},
		"deposit on a covered invoice is an overpayment": {
			policy:      OverpaymentReject,
			asset:       custody.NativeAsset,
			prepare:     func(t testing.TB, f *fixture, id uint64) { f.deposit(t, id, 10) },
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 1) },
			wantErr:     errors.ErrInvalidAmount,
			wantState:   StatePending,
			wantBalance: 10,
		},
		"overpayment is retained when configured": {
			policy:      OverpaymentRetain,
			asset:       custody.NativeAsset,
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 15) },
			wantState:   StatePending,
			wantBalance: 15,
		},
		"stranger cannot deposit": {
			asset:       custody.NativeAsset,
			signer:      func(f *fixture) arbee.Condition { return f.stranger },
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 10) },
			wantErr:     errors.ErrUnauthorized,
			wantState:   StateNew,
			wantBalance: 0,
		},
		"payee cannot deposit": {
			asset:       custody.NativeAsset,
			signer:      func(f *fixture) arbee.Condition { return f.payee },
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 10) },
			wantErr:     errors.ErrUnauthorized,
			wantState:   StateNew,
			wantBalance: 0,
		},
		"zero amount": {
			asset:     custody.NativeAsset,
			msg:       func(id uint64) *DepositMsg { return depositOf(id, 0) },
			wantErr:   errors.ErrInvalidAmount,
			wantState: StateNew,
		},
		"native value does not match amount": {
			asset: custody.NativeAsset,
			msg: func(id uint64) *DepositMsg {
				m := depositOf(id, 10)
				m.Value = 9
				return m
			},
			wantErr:   errors.ErrInvalidAmount,
			wantState: StateNew,
		},
		"native value attached to token deposit": {
			asset:     "USDT",
			msg:       func(id uint64) *DepositMsg { return depositOf(id, 10) },
			wantErr:   errors.ErrInvalidAmount,
			wantState: StateNew,
		},
		"payer cannot cover the deposit": {
			policy:    OverpaymentRetain,
			asset:     custody.NativeAsset,
			msg:       func(id uint64) *DepositMsg { return depositOf(id, initialFunds+1) },
			wantErr:   errors.ErrTransferFailed,
			wantState: StateNew,
		},
		"unknown invoice": {
			asset:     custody.NativeAsset,
			msg:       func(id uint64) *DepositMsg { return depositOf(id+1, 10) },
			wantErr:   errors.ErrNotFound,
			wantState: StateNew,
		},
		"disputed invoice": {
			asset: custody.NativeAsset,
			prepare: func(t testing.TB, f *fixture, id uint64) {
				f.deposit(t, id, 10)
				f.dispute(t, id)
			},
			msg:         func(id uint64) *DepositMsg { return depositOf(id, 1) },
			wantErr:     errors.ErrInvalidState,
			wantState:   StateDisputed,
			wantBalance: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, tc.policy)
			id := f.create(t, tc.asset, 10, 2)
			if tc.prepare != nil {
				tc.prepare(t, f, id)
			}
			signer := f.payer
			if tc.signer != nil {
				signer = tc.signer(f)
			}

			n, err := f.engine.Deposit(f.as(signer), f.db, tc.msg(id))
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			if tc.wantErr == nil {
				require.NotNil(t, n)
				assert.Equal(t, KindFunded, n.Kind())
				assert.Equal(t, tc.wantBalance, n.Balance)
				assert.Equal(t, tc.wantState, n.State)
			}

			inv := f.invoice(t, id)
			assert.Equal(t, tc.wantState, inv.State)
			assert.Equal(t, tc.wantBalance, inv.CustodiedBalance)
			assert.EqualValues(t, initialFunds-tc.wantBalance, f.wallet(t, f.payer.Address(), tc.asset))
		})
	}
}

func TestTransitions(t *testing.T) {
	type operation func(f *fixture, signer arbee.Condition, id uint64) error

	dispute := func(f *fixture, signer arbee.Condition, id uint64) error {
		_, err := f.engine.RaiseDispute(f.as(signer), f.db, id)
		return err
	}
	resolve := func(outcome Outcome) operation {
		return func(f *fixture, signer arbee.Condition, id uint64) error {
			_, err := f.engine.ResolveDispute(f.as(signer), f.db, id, outcome)
			return err
		}
	}
	release := func(f *fixture, signer arbee.Condition, id uint64) error {
		_, err := f.engine.ReleaseOnAgreement(f.as(signer), f.db, id)
		return err
	}
	cancel := func(f *fixture, signer arbee.Condition, id uint64) error {
		_, err := f.engine.Cancel(f.as(signer), f.db, id)
		return err
	}

	newInvoice := func(t testing.TB, f *fixture, id uint64) {}
	partial := func(t testing.TB, f *fixture, id uint64) { f.deposit(t, id, 3) }
	pending := func(t testing.TB, f *fixture, id uint64) { f.deposit(t, id, 10) }
	disputed := func(t testing.TB, f *fixture, id uint64) {
		f.deposit(t, id, 10)
		f.dispute(t, id)
	}
	released := func(t testing.TB, f *fixture, id uint64) {
		f.deposit(t, id, 10)
		_, err := f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, id)
		require.NoError(t, err)
	}
	cancelled := func(t testing.TB, f *fixture, id uint64) {
		_, err := f.engine.Cancel(f.as(f.payer), f.db, id)
		require.NoError(t, err)
	}

	payee := func(f *fixture) arbee.Condition { return f.payee }
	payer := func(f *fixture) arbee.Condition { return f.payer }
	arbitrator := func(f *fixture) arbee.Condition { return f.arbitrator }
	stranger := func(f *fixture) arbee.Condition { return f.stranger }

	cases := map[string]struct {
		noArbitrator bool
		prepare      func(t testing.TB, f *fixture, id uint64)
		signer       func(f *fixture) arbee.Condition
		op           operation
		wantErr      *errors.Error
		wantState    State
		wantBalance  uint64
		wantPayer    uint64
	}{
		"payer disputes": {
			prepare: pending, signer: payer, op: dispute,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"payee disputes": {
			prepare: pending, signer: payee, op: dispute,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"arbitrator cannot dispute": {
			prepare: pending, signer: arbitrator, op: dispute, wantErr: errors.ErrUnauthorized,
			wantState: StatePending, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"dispute of a new invoice": {
			prepare: partial, signer: payer, op: dispute, wantErr: errors.ErrInvalidState,
			wantState: StateNew, wantBalance: 3, wantPayer: initialFunds - 3,
		},
		"dispute without arbitrator": {
			noArbitrator: true,
			prepare:      pending, signer: payer, op: dispute, wantErr: errors.ErrInvalidState,
			wantState: StatePending, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"dispute twice": {
			prepare: disputed, signer: payee, op: dispute, wantErr: errors.ErrInvalidState,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"payer cannot resolve": {
			prepare: disputed, signer: payer, op: resolve(OutcomeRefunded), wantErr: errors.ErrUnauthorized,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"resolve without dispute": {
			prepare: pending, signer: arbitrator, op: resolve(OutcomePaid), wantErr: errors.ErrInvalidState,
			wantState: StatePending, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"resolve with invalid outcome": {
			prepare: disputed, signer: arbitrator, op: resolve(OutcomeInvalid), wantErr: errors.ErrInvalidInput,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"refund": {
			prepare: disputed, signer: arbitrator, op: resolve(OutcomeRefunded),
			wantState: StateResolvedRefunded, wantPayer: initialFunds - 2,
		},
		"payer cannot release": {
			prepare: pending, signer: payer, op: release, wantErr: errors.ErrUnauthorized,
			wantState: StatePending, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"release of a new invoice": {
			prepare: partial, signer: payee, op: release, wantErr: errors.ErrInvalidState,
			wantState: StateNew, wantBalance: 3, wantPayer: initialFunds - 3,
		},
		"release of a disputed invoice": {
			prepare: disputed, signer: payee, op: release, wantErr: errors.ErrInvalidState,
			wantState: StateDisputed, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"payee cancels a new invoice": {
			prepare: newInvoice, signer: payee, op: cancel,
			wantState: StateCancelled, wantPayer: initialFunds,
		},
		"cancel refunds a partial deposit": {
			prepare: partial, signer: payer, op: cancel,
			wantState: StateCancelled, wantPayer: initialFunds,
		},
		"stranger cannot cancel": {
			prepare: partial, signer: stranger, op: cancel, wantErr: errors.ErrUnauthorized,
			wantState: StateNew, wantBalance: 3, wantPayer: initialFunds - 3,
		},
		"cancel of a pending invoice": {
			prepare: pending, signer: payee, op: cancel, wantErr: errors.ErrInvalidState,
			wantState: StatePending, wantBalance: 10, wantPayer: initialFunds - 10,
		},
		"released invoice is final": {
			prepare: released, signer: payer, op: cancel, wantErr: errors.ErrInvalidState,
			wantState: StateResolvedPaid, wantPayer: initialFunds - 10,
		},
		"cancelled invoice is final": {
			prepare: cancelled, signer: payer, op: dispute, wantErr: errors.ErrInvalidState,
			wantState: StateCancelled, wantPayer: initialFunds,
		},
		"stranger on a final invoice is unauthorized": {
			prepare: released, signer: stranger, op: release, wantErr: errors.ErrUnauthorized,
			wantState: StateResolvedPaid, wantPayer: initialFunds - 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, OverpaymentReject)
			msg := f.createMsg(custody.NativeAsset, 10, 2)
			if tc.noArbitrator {
				msg.Arbitrator = nil
				msg.ArbitratorFeeUnits = 0
			}
			id, _, err := f.engine.Create(f.as(f.payee), f.db, msg)
			require.NoError(t, err)
			tc.prepare(t, f, id)

			err = tc.op(f, tc.signer(f), id)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)

			inv := f.invoice(t, id)
			assert.Equal(t, tc.wantState, inv.State)
			assert.Equal(t, tc.wantBalance, inv.CustodiedBalance)
			assert.Equal(t, tc.wantPayer, f.wallet(t, f.payer.Address(), custody.NativeAsset))
		})
	}
}

func TestCreateWithEmptyArbitrator(t *testing.T) {
	f := newFixture(t, OverpaymentReject)
	msg := f.createMsg(custody.NativeAsset, 10, 0)
	msg.Arbitrator = arbee.Address{}
	id, _, err := f.engine.Create(f.as(f.payee), f.db, msg)
	require.NoError(t, err)

	inv := f.invoice(t, id)
	assert.Nil(t, inv.Arbitrator)
	assert.False(t, inv.HasArbitrator())

	found, err := NewBucket().ByParty(f.db, IndexArbitrator, arbee.Address{})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFinalStatesRejectEveryOperation(t *testing.T) {
	final := map[string]struct {
		reach     func(t testing.TB, f *fixture, id uint64)
		wantState State
	}{
		"released": {
			reach: func(t testing.TB, f *fixture, id uint64) {
				f.deposit(t, id, 10)
				_, err := f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, id)
				require.NoError(t, err)
			},
			wantState: StateResolvedPaid,
		},
		"resolved paid": {
			reach: func(t testing.TB, f *fixture, id uint64) {
				f.deposit(t, id, 10)
				f.dispute(t, id)
				_, err := f.engine.ResolveDispute(f.as(f.arbitrator), f.db, id, OutcomePaid)
				require.NoError(t, err)
			},
			wantState: StateResolvedPaid,
		},
		"refunded": {
			reach: func(t testing.TB, f *fixture, id uint64) {
				f.deposit(t, id, 10)
				f.dispute(t, id)
				_, err := f.engine.ResolveDispute(f.as(f.arbitrator), f.db, id, OutcomeRefunded)
				require.NoError(t, err)
			},
			wantState: StateResolvedRefunded,
		},
		"cancelled": {
			reach: func(t testing.TB, f *fixture, id uint64) {
				f.deposit(t, id, 4)
				_, err := f.engine.Cancel(f.as(f.payee), f.db, id)
				require.NoError(t, err)
			},
			wantState: StateCancelled,
		},
	}

	operations := map[string]func(f *fixture, id uint64) error{
		"deposit by payer": func(f *fixture, id uint64) error {
			_, err := f.engine.Deposit(f.as(f.payer), f.db, depositOf(id, 1))
			return err
		},
		"dispute by payer": func(f *fixture, id uint64) error {
			_, err := f.engine.RaiseDispute(f.as(f.payer), f.db, id)
			return err
		},
		"resolve by arbitrator": func(f *fixture, id uint64) error {
			_, err := f.engine.ResolveDispute(f.as(f.arbitrator), f.db, id, OutcomePaid)
			return err
		},
		"release by payee": func(f *fixture, id uint64) error {
			_, err := f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, id)
			return err
		},
		"cancel by payee": func(f *fixture, id uint64) error {
			_, err := f.engine.Cancel(f.as(f.payee), f.db, id)
			return err
		},
	}

	for stateName, st := range final {
		for opName, op := range operations {
			t.Run(stateName+" "+opName, func(t *testing.T) {
				f := newFixture(t, OverpaymentReject)
				id := f.create(t, custody.NativeAsset, 10, 2)
				st.reach(t, f, id)

				parties := []arbee.Address{f.payee.Address(), f.payer.Address(), f.arbitrator.Address()}
				before := make([]uint64, len(parties))
				for i, addr := range parties {
					before[i] = f.wallet(t, addr, custody.NativeAsset)
				}

				err := op(f, id)
				require.True(t, errors.ErrInvalidState.Is(err), "unexpected error: %+v", err)

				inv := f.invoice(t, id)
				assert.Equal(t, st.wantState, inv.State)
				assert.EqualValues(t, 0, inv.CustodiedBalance)
				for i, addr := range parties {
					assert.Equal(t, before[i], f.wallet(t, addr, custody.NativeAsset))
				}
			})
		}
	}
}

func TestContractBalance(t *testing.T) {
	f := newFixture(t, OverpaymentReject)

	native := f.create(t, custody.NativeAsset, 10, 0)
	f.deposit(t, native, 7)
	token := f.create(t, "USDT", 20, 0)
	_, err := f.engine.Deposit(f.as(f.payer), f.db, &DepositMsg{InvoiceID: token, Amount: 20})
	require.NoError(t, err)
	settled := f.create(t, custody.NativeAsset, 5, 0)
	f.deposit(t, settled, 5)
	_, err = f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, settled)
	require.NoError(t, err)

	cases := map[string]struct {
		signer  arbee.Condition
		asset   string
		want    uint64
		wantErr *errors.Error
	}{
		"all assets": {
			signer: f.owner,
			want:   27,
		},
		"native only": {
			signer: f.owner,
			asset:  custody.NativeAsset,
			want:   7,
		},
		"token only": {
			signer: f.owner,
			asset:  "USDT",
			want:   20,
		},
		"payee is not the owner": {
			signer:  f.payee,
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := f.engine.ContractBalance(f.as(tc.signer), f.db, tc.asset)
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestContractBalanceWithoutOwner(t *testing.T) {
	db := store.MemStore()
	auth := &arbeetest.CtxAuth{Key: "auth"}
	engine := NewEngine(auth, custody.NewController())

	ctx := auth.SetConditions(context.Background(), arbeetest.NewCondition())
	_, err := engine.ContractBalance(ctx, db, "")
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestFailedTransferChangesNothing(t *testing.T) {
	f := newFixture(t, OverpaymentReject)
	id := f.create(t, custody.NativeAsset, 10, 2)
	f.deposit(t, id, 10)

	// Drain the custody account behind the engine's back.
	require.NoError(t, f.bank.Transfer(f.db, Account(id), f.stranger.Address(), custody.NativeAsset, 10))

	_, err := f.engine.ReleaseOnAgreement(f.as(f.payee), f.db, id)
	require.True(t, errors.ErrTransferFailed.Is(err), "unexpected error: %+v", err)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	inv, err := f.engine.Get(f.db, id)
	require.NoError(t, err)
	assert.Equal(t, StatePending, inv.State)
	assert.EqualValues(t, 10, inv.CustodiedBalance)
	assert.EqualValues(t, 0, f.wallet(t, f.payee.Address(), custody.NativeAsset))
}
