package server

import (
	"context"
	"net"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/pkg/adapter"
)

// Adapter wires the TRTP connection pipeline into pkg/adapter's shared TCP
// accept loop. It implements adapter.ConnectionFactory; the accept loop
// itself, graceful shutdown, and connection tracking all come from the
// embedded BaseAdapter.
type Adapter struct {
	*adapter.BaseAdapter

	state  *server.State
	config Config
}

// New creates an Adapter bound to state. base should already carry the bind
// address, port, max-connection limit, and shutdown timeout; config carries
// the pipeline's own handshake/idle tuning.
func New(base adapter.BaseConfig, config Config, state *server.State) *Adapter {
	config.ApplyDefaults()
	return &Adapter{
		BaseAdapter: adapter.NewBaseAdapter(base, "TRTP"),
		state:       state,
		config:      config,
	}
}

// NewConnection implements adapter.ConnectionFactory.
func (a *Adapter) NewConnection(conn net.Conn) adapter.ConnectionHandler {
	return NewConnection(conn, a.state, a.config)
}

// preAccept implements Phase 1's hard-drop-over-capacity rule: the protocol
// has no pre-handshake "busy" reply, so a connection over the configured
// limit is simply closed without ever reaching the handshake. This runs in
// addition to, not instead of, BaseAdapter's own semaphore -- the semaphore
// bounds sockets BaseAdapter has already committed to tracking, while this
// hook rejects against the live registered-session count before that
// commitment happens.
func (a *Adapter) preAccept(_ net.Conn) bool {
	if a.BaseAdapter.Config.MaxConnections <= 0 {
		return true
	}
	return a.state.Count() < a.BaseAdapter.Config.MaxConnections
}

// Serve runs the accept loop until ctx is cancelled, then waits for active
// connections to drain (or force-closes them past the configured shutdown
// timeout). On shutdown it also publishes a ServerShutdown broadcast event
// so every connected peer's pipeline breaks out of its loop promptly
// instead of waiting for the next inbound frame or the forced-close
// deadline.
func (a *Adapter) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		a.state.Hub.Publish(broadcast.Event{Kind: broadcast.ServerShutdown})
	}()
	return a.ServeWithFactory(ctx, a, a.preAccept, nil)
}
