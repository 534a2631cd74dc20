package custody

import (
	"regexp"
	"sort"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/orm"
	"github.com/gogo/protobuf/proto"
)

// BucketName is where we store the wallets
const BucketName = "custody"

// NativeAsset is the asset reference of the native currency. Any other
// value names a token ticker.
const NativeAsset = "native"

var isAsset = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,32}$`).MatchString

// ValidateAsset returns an error if given asset reference is malformed.
func ValidateAsset(asset string) error {
	if asset == "" {
		return errors.Wrap(errors.ErrEmpty, "asset")
	}
	if !isAsset(asset) {
		return errors.Wrapf(errors.ErrInvalidInput, "asset %q", asset)
	}
	return nil
}

// Balance is the amount of units of a single asset.
type Balance struct {
	Asset string `protobuf:"bytes,1,opt,name=asset,proto3" json:"asset,omitempty"`
	Units uint64 `protobuf:"varint,2,opt,name=units,proto3" json:"units,omitempty"`
}

// Wallet holds the balances of a single address. Balances are sorted by
// asset and never contain zero entries.
type Wallet struct {
	Metadata *arbee.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Balances []*Balance      `protobuf:"bytes,2,rep,name=balances,proto3" json:"balances,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.Append(errs, errors.Wrap(w.Metadata.Validate(), "metadata"))
	for i, b := range w.Balances {
		if b == nil {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrEmpty, "balance %d", i))
			continue
		}
		errs = errors.Append(errs, ValidateAsset(b.Asset))
		if b.Units == 0 {
			errs = errors.Append(errs, errors.Wrapf(errors.ErrInvalidModel, "zero balance of %s", b.Asset))
		}
		if i > 0 && w.Balances[i-1] != nil && w.Balances[i-1].Asset >= b.Asset {
			errs = errors.Append(errs, errors.Wrap(errors.ErrInvalidModel, "balances not sorted"))
		}
	}
	return errs
}

func (w *Wallet) Copy() orm.CloneableData {
	balances := make([]*Balance, len(w.Balances))
	for i, b := range w.Balances {
		cpy := *b
		balances[i] = &cpy
	}
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Balances: balances,
	}
}

// Units returns the balance of given asset.
func (w *Wallet) Units(asset string) uint64 {
	if i, ok := w.find(asset); ok {
		return w.Balances[i].Units
	}
	return 0
}

// Add increases the balance of given asset.
func (w *Wallet) Add(asset string, units uint64) error {
	if units == 0 {
		return nil
	}
	i, ok := w.find(asset)
	if !ok {
		w.Balances = append(w.Balances, nil)
		copy(w.Balances[i+1:], w.Balances[i:])
		w.Balances[i] = &Balance{Asset: asset, Units: units}
		return nil
	}
	cur := w.Balances[i].Units
	if cur+units < cur {
		return errors.Wrapf(errors.ErrOverflow, "%s balance", asset)
	}
	w.Balances[i].Units = cur + units
	return nil
}

// Subtract decreases the balance of given asset, dropping the entry when it
// reaches zero.
func (w *Wallet) Subtract(asset string, units uint64) error {
	if units == 0 {
		return nil
	}
	i, ok := w.find(asset)
	if !ok || w.Balances[i].Units < units {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s balance %d, need %d", asset, w.Units(asset), units)
	}
	w.Balances[i].Units -= units
	if w.Balances[i].Units == 0 {
		w.Balances = append(w.Balances[:i], w.Balances[i+1:]...)
	}
	return nil
}

// IsEmpty returns true if the wallet holds no assets.
func (w *Wallet) IsEmpty() bool {
	return len(w.Balances) == 0
}

func (w *Wallet) find(asset string) (int, bool) {
	i := sort.Search(len(w.Balances), func(i int) bool {
		return w.Balances[i].Asset >= asset
	})
	return i, i < len(w.Balances) && w.Balances[i].Asset == asset
}

func (w *Wallet) Marshal() ([]byte, error)  { return proto.Marshal((*walletWire)(w)) }
func (w *Wallet) Unmarshal(bz []byte) error { return proto.Unmarshal(bz, (*walletWire)(w)) }

type walletWire Wallet

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

// NewWallet returns an empty wallet.
func NewWallet() *Wallet {
	return &Wallet{Metadata: &arbee.Metadata{Schema: 1}}
}

// Bucket stores wallets by owner address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Wallet{}))
	return Bucket{ModelBucket: orm.NewModelBucket(b)}
}

// GetOrCreate returns the wallet of given address or an empty one.
func (b Bucket) GetOrCreate(db arbee.ReadOnlyKVStore, addr arbee.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return NewWallet(), nil
	default:
		return nil, err
	}
}

// Save stores the wallet, removing it once it is empty.
func (b Bucket) Save(db arbee.KVStore, addr arbee.Address, w *Wallet) error {
	if !w.IsEmpty() {
		return b.Put(db, addr, w)
	}
	switch err := b.Delete(db, addr); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return err
	}
}
