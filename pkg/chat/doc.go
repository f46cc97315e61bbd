// Package chat implements the core of the gateway: message validation, the
// conversation-aware completion flow, and the streaming relay that converts
// provider chunks into the wire frames sent to clients.
package chat
