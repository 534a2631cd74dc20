package arbeetest

import "github.com/arbee-network/arbee"

// Decorator is a mock implementation of the arbee.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ arbee.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx, next arbee.Checker) (*arbee.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return &arbee.CheckResult{}, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx, next arbee.Deliverer) (*arbee.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return &arbee.DeliverResult{}, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that calls the decorator wrapping given
// handler.
func Decorate(h arbee.Handler, d arbee.Decorator) arbee.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn arbee.Handler
	dc arbee.Decorator
}

var _ arbee.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
