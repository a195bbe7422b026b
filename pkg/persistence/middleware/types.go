package middleware

import "github.com/aretw0/renfebot/pkg/ports"

// Middleware allows wrapping a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Wrap applies the middleware to store, the first one being the outermost.
func Wrap(store ports.StateStore, middleware ...Middleware) ports.StateStore {
	for i := len(middleware) - 1; i >= 0; i-- {
		store = middleware[i](store)
	}
	return store
}
