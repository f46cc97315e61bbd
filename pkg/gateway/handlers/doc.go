// Package handlers contains the HTTP handlers for the gateway's endpoints:
// chat streaming, conversation reset, and health probes.
package handlers
