package arbeetest

import (
	"context"
	"testing"

	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store"
	"github.com/stretchr/testify/assert"
)

func TestDecoratorCallCount(t *testing.T) {
	cases := map[string]struct {
		dc          Decorator
		wantCheck   *errors.Error
		wantDeliver *errors.Error
	}{
		"passes through": {},
		"check failure": {
			dc:        Decorator{CheckErr: errors.ErrUnauthorized},
			wantCheck: errors.ErrUnauthorized,
		},
		"deliver failure": {
			dc:          Decorator{DeliverErr: errors.ErrNotFound},
			wantDeliver: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var hn Handler
			h := Decorate(&hn, &tc.dc)
			db := store.MemStore()
			ctx := context.Background()

			_, err := h.Check(ctx, db, &Tx{})
			assert.True(t, tc.wantCheck.Is(err), "check: %v", err)
			_, err = h.Deliver(ctx, db, &Tx{})
			assert.True(t, tc.wantDeliver.Is(err), "deliver: %v", err)

			assert.Equal(t, 2, tc.dc.CallCount())
			wantHandlerCalls := 2
			if tc.wantCheck != nil || tc.wantDeliver != nil {
				wantHandlerCalls = 1
			}
			assert.Equal(t, wantHandlerCalls, hn.CallCount())
		})
	}
}
