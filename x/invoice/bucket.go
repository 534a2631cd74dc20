package invoice

import (
	"encoding/binary"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/orm"
)

const (
	// BucketName is where we store the invoices
	BucketName = "invoice"
	// SequenceName is the counter of created invoices
	SequenceName = "id"

	IndexPayee      = "payee"
	IndexPayer      = "payer"
	IndexArbitrator = "arbitrator"
)

// Bucket is the append only ledger of invoices. Ids are assigned
// sequentially starting at zero and an invoice is never removed.
type Bucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewBucket initializes an invoice Bucket with the party indexes.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Invoice{})).
		WithIndex(IndexPayee, payeeIndex, false).
		WithIndex(IndexPayer, payerIndex, false).
		WithIndex(IndexArbitrator, arbitratorIndex, false)
	return Bucket{
		ModelBucket: orm.NewModelBucket(b),
		seq:         b.Sequence(SequenceName),
	}
}

// IDKey returns the database key of the invoice with given id.
func IDKey(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

// ParseID is the inverse of IDKey.
func ParseID(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "invoice id must be 8 bytes, got %d", len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}

// Append stores a new invoice under the next free id and returns that id.
func (b Bucket) Append(db arbee.KVStore, inv *Invoice) (uint64, error) {
	next, err := b.seq.NextInt(db)
	if err != nil {
		return 0, errors.Wrap(err, "next id")
	}
	id := next - 1
	if err := b.Put(db, IDKey(id), inv); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns the invoice with given id. ErrNotFound is returned for any id
// that was not assigned yet.
func (b Bucket) Get(db arbee.ReadOnlyKVStore, id uint64) (*Invoice, error) {
	count, err := b.Count(db)
	if err != nil {
		return nil, err
	}
	if id >= count {
		return nil, errors.Wrapf(errors.ErrNotFound, "invoice %d", id)
	}
	var inv Invoice
	if err := b.One(db, IDKey(id), &inv); err != nil {
		return nil, errors.Wrapf(err, "invoice %d", id)
	}
	return &inv, nil
}

// Update loads the invoice with given id, applies fn and writes the result
// back. Nothing is written if fn fails.
func (b Bucket) Update(db arbee.KVStore, id uint64, fn func(*Invoice) error) (*Invoice, error) {
	inv, err := b.Get(db, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := b.Put(db, IDKey(id), inv); err != nil {
		return nil, errors.Wrapf(err, "invoice %d", id)
	}
	return inv, nil
}

// Count returns the number of invoices ever created.
func (b Bucket) Count(db arbee.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Current(db)
}

// ByParty returns all invoices where given address has the role described
// by the index name.
func (b Bucket) ByParty(db arbee.ReadOnlyKVStore, index string, addr arbee.Address) ([]Invoice, error) {
	var invoices []Invoice
	if err := b.ByIndex(db, index, addr, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

func payeeIndex(obj orm.Object) ([]byte, error) {
	inv, err := asInvoice(obj)
	if err != nil {
		return nil, err
	}
	return inv.Payee, nil
}

func payerIndex(obj orm.Object) ([]byte, error) {
	inv, err := asInvoice(obj)
	if err != nil {
		return nil, err
	}
	return inv.Payer, nil
}

// arbitratorIndex skips invoices without an arbitrator.
func arbitratorIndex(obj orm.Object) ([]byte, error) {
	inv, err := asInvoice(obj)
	if err != nil {
		return nil, err
	}
	if !inv.HasArbitrator() {
		return nil, nil
	}
	return inv.Arbitrator, nil
}

func asInvoice(obj orm.Object) (*Invoice, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	inv, ok := obj.Value().(*Invoice)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, obj.Value())
	}
	return inv, nil
}
