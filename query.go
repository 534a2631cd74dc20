package arbee

import (
	"fmt"
	"sort"
)

// Query modifiers are appended to the path after a "?".
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key and value returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler answers ABCI queries for a single path.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryHandlerFunc allows a plain function to serve a query path.
type QueryHandlerFunc func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)

func (fn QueryHandlerFunc) Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
	return fn(db, mod, data)
}

// QueryRegister is a function that adds some handlers
// to this router
type QueryRegister func(QueryRouter)

// QueryRouter directs each query to the handler registered for its path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a new Handler for the given path. It panics if the path is
// taken or does not start with a slash.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if len(path) < 2 || path[0] != '/' {
		panic(fmt.Sprintf("invalid query path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path.
// Returns nil when no handler was registered for the path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths returns all registered paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
