package arbee

import (
	"github.com/tendermint/tendermint/libs/common"
)

// Notification describes a single state change. It is created by a handler
// and delivered to a Notifier after the change was applied.
type Notification interface {
	// Kind is a short name of the change, for example "created".
	Kind() string
	// Tags returns the indexable key value pairs of this notification.
	Tags() []common.KVPair
}

// Notifier is an external observer of state changes.
//
// Delivery is fire and forget from the ledger point of view. A failing
// notifier never rolls back an already applied change.
type Notifier interface {
	Notify(ctx Context, n Notification) error
}

// NotifierFunc allows to use a function as a Notifier.
type NotifierFunc func(Context, Notification) error

// Notify calls the wrapped function.
func (fn NotifierFunc) Notify(ctx Context, n Notification) error {
	return fn(ctx, n)
}

// NopNotifier drops all notifications.
var NopNotifier Notifier = nopNotifier{}

type nopNotifier struct{}

func (nopNotifier) Notify(Context, Notification) error { return nil }
