package arbeetest

import "github.com/arbee-network/arbee"

// Handler is a mock implementation of the arbee.Handler interface that
// returns preconfigured results and counts its calls.
type Handler struct {
	checkCall   int
	CheckResult arbee.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult arbee.DeliverResult
	DeliverErr    error
}

var _ arbee.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	h.checkCall++
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	h.deliverCall++
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes given key value pair to the store and returns the
// configured error.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ arbee.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(ctx arbee.Context, db arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &arbee.DeliverResult{}, h.Err
}

// PanicHandler always panics with the configured value.
type PanicHandler struct {
	Err error
}

var _ arbee.Handler = PanicHandler{}

func (p PanicHandler) Check(arbee.Context, arbee.KVStore, arbee.Tx) (*arbee.CheckResult, error) {
	panic(p.Err)
}

func (p PanicHandler) Deliver(arbee.Context, arbee.KVStore, arbee.Tx) (*arbee.DeliverResult, error) {
	panic(p.Err)
}
