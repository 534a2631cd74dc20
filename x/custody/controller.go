package custody

import (
	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// Controller moves assets between custody wallets.
type Controller interface {
	// Balance returns the units of given asset held by the address.
	Balance(db arbee.ReadOnlyKVStore, addr arbee.Address, asset string) (uint64, error)

	// Transfer moves units of an asset from src to dst. It fails without
	// any change when src does not hold enough.
	Transfer(db arbee.KVStore, src, dst arbee.Address, asset string, units uint64) error

	// Issue credits units of an asset to dst out of thin air. Only the
	// genesis initializer uses it. Deposits, including native ones, move
	// existing funds with Transfer.
	Issue(db arbee.KVStore, dst arbee.Address, asset string, units uint64) error
}

// BaseController is the Controller backed by the custody bucket.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the custody bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db arbee.ReadOnlyKVStore, addr arbee.Address, asset string) (uint64, error) {
	w, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Units(asset), nil
}

func (c BaseController) Transfer(db arbee.KVStore, src, dst arbee.Address, asset string, units uint64) error {
	if err := validateMove(asset, units); err != nil {
		return err
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Equals(dst) {
		return nil
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(asset, units); err != nil {
		return err
	}
	recipient, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if err := recipient.Add(asset, units); err != nil {
		return err
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Save(db, dst, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) Issue(db arbee.KVStore, dst arbee.Address, asset string, units uint64) error {
	if err := validateMove(asset, units); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	recipient, err := c.bucket.GetOrCreate(db, dst)
	if err != nil {
		return err
	}
	if err := recipient.Add(asset, units); err != nil {
		return err
	}
	return c.bucket.Save(db, dst, recipient)
}

func validateMove(asset string, units uint64) error {
	if err := ValidateAsset(asset); err != nil {
		return err
	}
	if units == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero units")
	}
	return nil
}
