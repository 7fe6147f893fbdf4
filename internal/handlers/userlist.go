package handlers

import (
	"context"
	"encoding/binary"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// encodeUserNameWithInfo packs one entry of the legacy UserNameWithInfo
// layout into a single field's raw bytes: user id, icon id, flags, then a
// length-prefixed name, all big-endian. This is a fixed sub-structure
// within the field payload, distinct from the outer id/size/payload
// framing every field already carries.
func encodeUserNameWithInfo(sess *session.Session) []byte {
	name := []byte(sess.Nickname)
	buf := make([]byte, 8+len(name))
	binary.BigEndian.PutUint16(buf[0:2], sess.UserID)
	binary.BigEndian.PutUint16(buf[2:4], sess.IconID)
	binary.BigEndian.PutUint16(buf[4:6], sess.Flags)
	binary.BigEndian.PutUint16(buf[6:8], uint16(len(name)))
	copy(buf[8:], name)
	return buf
}

// GetUserNameList returns one UserNameWithInfo field per connected,
// authenticated session.
func GetUserNameList(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !sess.IsAuthenticated() {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	var fields []trtp.Field
	for _, other := range st.Snapshot() {
		if !other.IsAuthenticated() {
			continue
		}
		fields = append(fields, trtp.BytesField(trtp.FieldUserNameWithInfo, encodeUserNameWithInfo(other)))
	}

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone, fields...), nil
}
