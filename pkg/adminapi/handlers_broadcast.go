package adminapi

import (
	"net/http"

	"github.com/trtpd/trtpd/internal/broadcast"
	internalserver "github.com/trtpd/trtpd/internal/server"
)

type broadcastHandler struct {
	state *internalserver.State
}

func newBroadcastHandler(state *internalserver.State) *broadcastHandler {
	return &broadcastHandler{state: state}
}

type broadcastRequest struct {
	Message string `json:"message"`
}

// Send handles POST /api/v1/broadcast, publishing an operator message to
// every connected session as a TRTP ServerMessage push.
func (h *broadcastHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		BadRequest(w, "message is required")
		return
	}

	h.state.Hub.Publish(broadcast.Event{
		Kind:    broadcast.ServerMessage,
		Message: []byte(req.Message),
	})
	WriteNoContent(w)
}
