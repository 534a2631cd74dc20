package utils

import (
	"github.com/arbee-network/arbee"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// ActionTagger will inspect the message being executed and add a tag
// `action = msg.Path()` together with the tags of every notification the
// handler emitted. Clients can then search or subscribe to for example all
// changes of a single invoice.
type ActionTagger struct{}

var _ arbee.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx, next arbee.Checker) (*arbee.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends tags on the result if there is a success.
func (ActionTagger) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (*arbee.DeliverResult, error) {
	// Fail early, before any state is changed.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	for _, n := range res.Notifications {
		res.Tags = append(res.Tags, n.Tags()...)
	}
	return res, nil
}
