// Package middleware provides HTTP middleware for the gateway: request ID
// propagation, structured request logging, panic recovery, CORS, and rate
// limiting. Middleware compose as ordinary func(http.Handler) http.Handler
// wrappers.
package middleware
