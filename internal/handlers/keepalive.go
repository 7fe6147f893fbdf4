package handlers

import (
	"context"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// KeepConnectionAlive answers a client's keepalive ping with an empty
// success reply. Idle-timeout enforcement, when configured at all (it is off
// by default), lives in the connection pipeline, so there is nothing else to
// do here -- but treating this as an unhandled type would
// fill the log with warnings for every legacy client that polls it.
func KeepConnectionAlive(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
}
