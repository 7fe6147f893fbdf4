package handlers

import (
	"context"
	"strings"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// legacyAdminIconID is substituted for a connection with AccessDisconnectUsers
// that sent the default icon (0), matching the icon legacy clients render
// for the built-in admin account.
const legacyAdminIconID = 410

// Agreed completes login after the client accepts the server agreement: it
// records the chosen nickname, icon, and preferences, and announces the
// user to everyone already connected.
func Agreed(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	nickname := sess.Nickname
	if f, ok := tx.Field(trtp.FieldUserName); ok {
		if name, ok := f.AsString(); ok && strings.TrimSpace(name) != "" {
			nickname = name
		}
	}

	var iconID uint16
	if f, ok := tx.Field(trtp.FieldUserIconID); ok {
		if v, ok := f.AsInteger(); ok {
			iconID = uint16(v)
		}
	}

	var opts session.Options
	if f, ok := tx.Field(trtp.FieldOptions); ok {
		if v, ok := f.AsInteger(); ok {
			opts = session.Options(v)
		}
	}

	access := trtp.AccessMask(sess.AccessMask)
	flags := opts.ToUserFlags()
	if access.Has(trtp.AccessDisconnectUsers) {
		flags |= session.FlagAdmin
		if iconID == 0 {
			iconID = legacyAdminIconID
		}
	}

	sess.Nickname = nickname
	sess.IconID = iconID
	sess.Options = opts
	sess.Flags = flags

	st.Hub.Publish(broadcast.Event{
		Kind:     broadcast.UserJoined,
		UserID:   sess.UserID,
		Nickname: sess.Nickname,
	})

	result := reply(tx.Type, tx.ID, trtp.ErrorCodeNone)
	wire := access.ToWire()
	result.Pushes = append(result.Pushes, push(trtp.TypeUserAccess, trtp.ErrorCodeNone,
		trtp.BytesField(trtp.FieldUserAccess, wire[:])))
	return result, nil
}
