// Package handlers implements one function per TRTP transaction type: login
// and the post-login handshake, chat, the user list, account management, and
// the in-protocol admin kick. Each handler is a pure function of the shared
// server state, the calling session, and the inbound transaction -- it has
// no knowledge of sockets or goroutines, so it can be unit tested without a
// live connection.
package handlers

import (
	"context"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// Result is what a handler produces for the connection pipeline to send.
type Result struct {
	// Reply is sent first, echoing the request's type and id. Nil means no
	// reply at all -- a silent drop, used for unauthenticated chat and for
	// transaction types nobody handles.
	Reply *trtp.Transaction

	// Pushes are additional transactions sent on the same connection right
	// after Reply, in order. This is how ShowAgreement follows a successful
	// Login reply and UserAccess follows a successful Agreed reply: both
	// must land on this connection before anything else does.
	Pushes []*trtp.Transaction
}

// Func handles one transaction for a connected session. A returned error
// means something went wrong independent of the client's request (a store
// failure, say); the pipeline logs it, sends nothing for that transaction,
// and keeps the connection open. Business
// outcomes -- bad credentials, a missing privilege, an unknown target --
// are never Go errors, only error-coded replies.
type Func func(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error)

func reply(typ trtp.TransactionType, requestID uint32, code trtp.ErrorCode, fields ...trtp.Field) *Result {
	return &Result{Reply: trtp.NewReply(typ, requestID, code, fields...)}
}

// push builds a server-initiated transaction: is_reply=0, id=0, the
// convention the legacy protocol uses for unsolicited notifications.
func push(typ trtp.TransactionType, code trtp.ErrorCode, fields ...trtp.Field) *trtp.Transaction {
	return trtp.NewPush(typ, code, fields...)
}

// checkPrivilege reports whether sess currently holds every bit in want.
// Guests and unauthenticated sessions never hold any account privilege.
func checkPrivilege(sess *session.Session, want trtp.AccessMask) bool {
	if !sess.IsAuthenticated() {
		return false
	}
	return trtp.AccessMask(sess.AccessMask).Has(want)
}

// wireAccess decodes an 8-byte UserAccess field using the protocol's
// bit-reversed wire layout. ok is false if the field isn't exactly 8 bytes.
func wireAccess(f trtp.Field) (trtp.AccessMask, bool) {
	if len(f.Raw) != 8 {
		return 0, false
	}
	var wire [8]byte
	copy(wire[:], f.Raw)
	return trtp.AccessMaskFromWire(wire), true
}
