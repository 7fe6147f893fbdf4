// Package server implements the TRTP connection pipeline: the per-connection
// accept/handshake/transaction loop that sits between the raw TCP socket and
// the shared server state. It adapts pkg/adapter's generic connection
// lifecycle scaffolding to the chat protocol's own framing and push
// semantics.
package server

import "time"

// Config holds the connection pipeline's own tuning knobs, layered on top of
// pkg/adapter.BaseConfig (bind address, port, max connections, shutdown
// timeout).
type Config struct {
	// HandshakeTimeout bounds how long Phase 2 waits for the 12-byte client
	// greeting before giving up and closing the socket.
	HandshakeTimeout time.Duration

	// IdleTimeout, if nonzero, disconnects a session whose last inbound
	// transaction is older than this. The legacy server has no such reaper;
	// this is an operator opt-in, off by default.
	IdleTimeout time.Duration
}

// ApplyDefaults fills zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
}
