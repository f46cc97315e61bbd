// Parley is a thin chat backend gateway for LLM APIs.
//
// It accepts chat messages over HTTP, maintains a bounded rolling
// conversation history, forwards that history to the configured LLM
// provider, and streams the assistant's reply back to the client as
// Server-Sent Events.
//
// Usage:
//
//	# Start with default configuration and environment variables
//	parley run
//
//	# Start with a configuration file
//	parley run --config /path/to/config.yaml
//
//	# Validate a configuration file
//	parley validate --config /path/to/config.yaml
//
//	# Show version information
//	parley version
package main

func main() {
	Execute()
}
