package handlers

import (
	"context"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// SendChat broadcasts a chat message to every authenticated session. There
// is no direct reply, not even to the sender: their own client only ever
// renders the message after it comes back around through the broadcast hub,
// the same as every other recipient.
func SendChat(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !sess.IsAuthenticated() {
		return &Result{}, nil
	}

	var message []byte
	if f, ok := tx.Field(trtp.FieldData); ok {
		message = f.Raw
	}

	emote := false
	if f, ok := tx.Field(trtp.FieldChatOptions); ok {
		if v, ok := f.AsInteger(); ok {
			emote = v == 1
		}
	}

	st.Hub.Publish(broadcast.Event{
		Kind:     broadcast.ChatMessage,
		SenderID: sess.UserID,
		Nickname: sess.Nickname,
		Message:  message,
		Emote:    emote,
	})

	return &Result{}, nil
}
