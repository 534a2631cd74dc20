package app

import (
	"fmt"
	"regexp"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]arbee.Handler
}

var _ arbee.Registry = (*Router)(nil)
var _ arbee.Handler = (*Router)(nil)

// NewRouter returns a new, empty router
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]arbee.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h arbee.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. This method always returns a non nil
// Handler.
func (r *Router) Handler(path string) arbee.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx arbee.Context, store arbee.KVStore, tx arbee.Tx) (*arbee.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(arbee.Context, arbee.KVStore, arbee.Tx) (*arbee.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(arbee.Context, arbee.KVStore, arbee.Tx) (*arbee.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
