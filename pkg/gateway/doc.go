// Package gateway implements the HTTP surface of the chat gateway: request
// parsing, the JSON error envelope, and Server-Sent Events response writing.
//
// Handlers live in the handlers subpackage and cross-cutting concerns
// (request IDs, logging, panic recovery, CORS, rate limiting) in the
// middleware subpackage.
package gateway
