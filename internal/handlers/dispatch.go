package handlers

import (
	"context"
	"log/slog"

	"github.com/trtpd/trtpd/internal/logger"
	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// table maps every actively-implemented transaction type to its handler.
// Anything in trtp's stubbed set, or recognized but outside this table
// (the server-push-only notification types a well-behaved client never
// sends), gets a generic empty-success reply instead of a dedicated
// function. Anything not recognized at all is logged and dropped.
var table = map[trtp.TransactionType]Func{
	trtp.TypeLogin:              Login,
	trtp.TypeAgreed:             Agreed,
	trtp.TypeSendChat:           SendChat,
	trtp.TypeGetUserNameList:    GetUserNameList,
	trtp.TypeGetClientInfoText:  GetClientInfoText,
	trtp.TypeNewUser:            NewUser,
	trtp.TypeGetUser:            GetUser,
	trtp.TypeSetUser:            SetUser,
	trtp.TypeDeleteUser:         DeleteUser,
	trtp.TypeKeepConnectionAlive: KeepConnectionAlive,
	trtp.TypeDisconnectUser:     DisconnectUser,
}

// Dispatch routes tx to its handler. See table's doc comment for how the
// stubbed/recognized/unknown tiers are treated.
func Dispatch(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if fn, ok := table[tx.Type]; ok {
		return fn(ctx, st, sess, tx)
	}
	if tx.Type.IsRecognized() {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
	}
	logger.Warn("unhandled transaction type",
		slog.Uint64("type", uint64(tx.Type)),
		logger.RequestID(tx.ID),
		logger.SessionID(sessionKey(sess)),
	)
	return &Result{}, nil
}

func sessionKey(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Nickname
}
