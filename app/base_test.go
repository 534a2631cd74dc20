package app

import (
	"context"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/arbeetest"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

type testNotification string

func (n testNotification) Kind() string { return string(n) }

func (n testNotification) Tags() []common.KVPair {
	return []common.KVPair{{Key: []byte("test.kind"), Value: []byte(n)}}
}

// pathDecoder decodes the raw bytes as the message path.
func pathDecoder(raw []byte) (arbee.Tx, error) {
	switch string(raw) {
	case "":
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty transaction")
	case "panic":
		panic("cannot decode")
	}
	return &arbeetest.Tx{Msg: &arbeetest.Msg{RoutePath: string(raw)}}, nil
}

func newBaseApp(t testing.TB, notifier arbee.Notifier) BaseApp {
	t.Helper()
	s, err := NewStoreApp("test", iavl.MockCommitStore(), arbee.NewQueryRouter(), context.Background())
	require.NoError(t, err)
	s.WithInit(ChainInitializers())
	s.InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: []byte(`{}`)})

	r := NewRouter()
	r.Handle("test/notify", &arbeetest.Handler{
		DeliverResult: arbee.DeliverResult{
			Data:          []byte("ok"),
			Notifications: []arbee.Notification{testNotification("created")},
		},
	})
	r.Handle("test/fail", &arbeetest.Handler{
		CheckErr:   errors.ErrInvalidState,
		DeliverErr: errors.ErrInvalidState,
		DeliverResult: arbee.DeliverResult{
			Notifications: []arbee.Notification{testNotification("lost")},
		},
	})
	return NewBaseApp(s, pathDecoder, r, notifier, false)
}

func TestDeliverNotifies(t *testing.T) {
	notifier := &arbeetest.Notifier{}
	b := newBaseApp(t, notifier)

	res := b.DeliverTx([]byte("test/notify"))
	require.EqualValues(t, 0, res.Code, res.Log)
	assert.Equal(t, []byte("ok"), res.Data)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "created", string(res.Tags[0].Value))
	assert.Equal(t, []string{"created"}, notifier.Kinds())

	// A failed transaction notifies nobody.
	res = b.DeliverTx([]byte("test/fail"))
	assert.Equal(t, errors.ErrInvalidState.ABCICode(), res.Code)
	assert.Equal(t, []string{"created"}, notifier.Kinds())

	// Neither does checking.
	check := b.CheckTx([]byte("test/notify"))
	require.EqualValues(t, 0, check.Code, check.Log)
	assert.Len(t, notifier.Received(), 1)
}

func TestNotifierFailureDoesNotFailDelivery(t *testing.T) {
	notifier := &arbeetest.Notifier{Err: errors.ErrTransferFailed}
	b := newBaseApp(t, notifier)

	res := b.DeliverTx([]byte("test/notify"))
	assert.EqualValues(t, 0, res.Code, res.Log)
	assert.Len(t, notifier.Received(), 1)
}

func TestDecodingErrors(t *testing.T) {
	b := newBaseApp(t, nil)

	res := b.DeliverTx(nil)
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), res.Code)

	check := b.CheckTx([]byte("panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), check.Code)

	res = b.DeliverTx([]byte("test/unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)
}
