package x

import (
	"context"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
	"github.com/stretchr/testify/assert"
)

func TestAuth(t *testing.T) {
	a := arbeetest.NewCondition()
	b := arbeetest.NewCondition()
	c := arbeetest.NewCondition()

	ctx1 := &arbeetest.CtxAuth{Key: "foo"}
	ctx2 := &arbeetest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          arbee.Context
		auth         Authenticator
		mainSigner   arbee.Condition
		wantInCtx    arbee.Condition
		wantNotInCtx arbee.Condition
		wantAll      []arbee.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &arbeetest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &arbeetest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []arbee.Condition{a},
		},
		"chained signers keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&arbeetest.Auth{Signer: b},
				&arbeetest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []arbee.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []arbee.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil {
				assert.True(t, tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()))
			}
			if tc.wantNotInCtx != nil {
				assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()))
			}
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))

			addrs := GetAddresses(tc.ctx, tc.auth)
			assert.True(t, HasAllAddresses(tc.ctx, tc.auth, addrs))
			if tc.wantNotInCtx != nil {
				withMissing := append(addrs, tc.wantNotInCtx.Address())
				assert.False(t, HasAllAddresses(tc.ctx, tc.auth, withMissing))
			}
		})
	}
}

func TestAnyAddress(t *testing.T) {
	a := arbeetest.NewCondition()
	b := arbeetest.NewCondition()
	auth := &arbeetest.Auth{Signer: b}
	ctx := context.Background()

	assert.Equal(t, b.Address(), AnyAddress(ctx, auth, a.Address(), b.Address()))
	assert.Nil(t, AnyAddress(ctx, auth, a.Address(), nil))
	assert.Nil(t, AnyAddress(ctx, auth))
}
