package handlers

import (
	"context"
	"fmt"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// Login authenticates a connection against a stored account, or grants
// guest access when the server allows it and the client sent an empty
// login or password. The reply carries the connection's allocated UserId
// and its effective UserAccess mask in addition to the version and server
// name -- the client needs both immediately, not after a follow-up round
// trip.
func Login(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	login := ""
	if f, ok := tx.Field(trtp.FieldUserLogin); ok {
		login = string(trtp.Scramble(f.Raw))
	}
	password := ""
	if f, ok := tx.Field(trtp.FieldUserPassword); ok {
		password = string(trtp.Scramble(f.Raw))
	}

	var access trtp.AccessMask

	if login == "" || password == "" {
		if !st.Config.AllowGuests {
			return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
		}
		access = trtp.AccessMask(st.Config.GuestAccessMask)
		sess.AuthenticateGuest(fmt.Sprintf("Guest %d", sess.UserID), 0, uint64(access))
	} else {
		account, err := st.Account.GetByLogin(ctx, login)
		if err != nil {
			return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
		}
		if !trtp.VerifyScrambledPassword(account.PasswordHash, password) {
			return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
		}
		access = trtp.AccessMask(account.AccessMask)
		sess.AuthenticateUser(account.ID, account.Name, 0, uint64(access))
	}

	wire := access.ToWire()
	result := reply(tx.Type, tx.ID, trtp.ErrorCodeNone,
		trtp.Uint16Field(trtp.FieldVersion, trtp.ServerVersion),
		trtp.Uint16Field(trtp.FieldUserID, sess.UserID),
		trtp.BytesField(trtp.FieldUserAccess, wire[:]),
		trtp.Uint16Field(trtp.FieldBannerID, st.Config.BannerID),
		trtp.StringField(trtp.FieldServerName, st.Config.ServerName),
	)
	result.Pushes = append(result.Pushes, push(trtp.TypeShowAgreement, trtp.ErrorCodeNone))
	return result, nil
}
