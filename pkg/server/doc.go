// Package server assembles the gateway's HTTP server: routes, middleware
// chain, lifecycle, and graceful shutdown.
package server
