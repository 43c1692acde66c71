// Package middleware provides composable HTTP middleware for the API
// server (request logging, panic recovery, rate limiting).
package middleware

import "net/http"

// Middleware wraps an http.Handler with cross-cutting logic.
type Middleware func(next http.Handler) http.Handler

// Chain composes multiple middleware into a single Middleware.
// Middleware are applied right-to-left: the first middleware in the
// list is the outermost wrapper.
//
// Example: Chain(logging, recovery, limit) executes as:
//
//	logging → recovery → limit → handler
func Chain(mws ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}
