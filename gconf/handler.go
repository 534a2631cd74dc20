package gconf

import (
	"reflect"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
	"github.com/arbee-network/arbee/x"
)

// OwnedConfig must have an Owner field in protobuf. A configuration update
// message must be signed by an owner in order to be authorized to apply the
// change.
type OwnedConfig interface {
	Configuration
	GetOwner() arbee.Address
}

// UpdateConfigurationHandler applies a configuration patch signed by the
// current configuration owner.
type UpdateConfigurationHandler struct {
	pkg    string
	config func() OwnedConfig
	auth   x.Authenticator
	notify func(arbee.Address) arbee.Notification
}

var _ arbee.Handler = UpdateConfigurationHandler{}

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// To pass authentication step, each message must be signed by the current
// configuration owner. A configuration that was not created via genesis can
// never be updated.
//
// newConfig must return a new, empty instance of the configuration each time
// it is called. notify, if not nil, creates a notification describing the
// applied change, addressed by the owner that signed it.
func NewUpdateConfigurationHandler(
	pkg string,
	newConfig func() OwnedConfig,
	auth x.Authenticator,
	notify func(arbee.Address) arbee.Notification,
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: newConfig,
		auth:   auth,
		notify: notify,
	}
}

func (h UpdateConfigurationHandler) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	if _, err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &arbee.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	owner, err := h.applyTx(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	res := &arbee.DeliverResult{}
	if h.notify != nil {
		res.Notifications = []arbee.Notification{h.notify(owner)}
	}
	return res, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (arbee.Address, error) {
	config := h.config()
	if err := Load(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "load current configuration")
	}
	// Configuration owner must sign the transaction in order to
	// authenticate the change.
	owner := config.GetOwner()
	if len(owner) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return nil, errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, config); err != nil {
		return nil, errors.Wrap(err, "cannot save updated config")
	}
	return owner, nil
}

func patch(config OwnedConfig, payload OwnedConfig) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType {
		return errors.Wrapf(errors.ErrInvalidMsg, "%s patch cannot update %s configuration", pType, cType)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is extracted and
// returned.
func patchPayload(tx arbee.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrInvalidInput, `%T has no "Patch" field`, msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrInvalidState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
