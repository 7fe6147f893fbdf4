package handlers

import (
	"context"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// DisconnectUser is the in-protocol admin kick: an authenticated admin
// forcibly disconnects another connected user. It funnels through the same
// server.State.Kick primitive as the out-of-band admin API kick route, so
// both surfaces behave identically and the other connected users see the
// same UserLeft notification either way.
func DisconnectUser(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessDisconnectUsers) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	f, ok := tx.Field(trtp.FieldUserID)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	v, ok := f.AsInteger()
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	targetID := uint16(v)

	target, ok := st.Get(targetID)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeNotFound), nil
	}
	if trtp.AccessMask(target.AccessMask).Has(trtp.AccessCantBeDisconnected) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	st.Kick(targetID)

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
}
