package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	internalserver "github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

type sessionHandler struct {
	state *internalserver.State
}

func newSessionHandler(state *internalserver.State) *sessionHandler {
	return &sessionHandler{state: state}
}

// sessionResponse is the operator-facing view of one connected TRTP
// session, deliberately narrower than session.Session: no kick channel, no
// internal synchronization primitives.
type sessionResponse struct {
	UserID       uint16    `json:"user_id"`
	Nickname     string    `json:"nickname"`
	Address      string    `json:"address"`
	Authenticated bool     `json:"authenticated"`
	Guest        bool      `json:"guest"`
	ConnectedAt  time.Time `json:"connected_at"`
	LastActivity time.Time `json:"last_activity"`
}

func sessionToResponse(sess *session.Session) sessionResponse {
	addr := ""
	if sess.Address != nil {
		addr = sess.Address.String()
	}
	return sessionResponse{
		UserID:        sess.UserID,
		Nickname:      sess.Nickname,
		Address:       addr,
		Authenticated: sess.IsAuthenticated(),
		Guest:         sess.IsGuest(),
		ConnectedAt:   sess.ConnectedAt,
		LastActivity:  sess.LastActivity,
	}
}

// List handles GET /api/v1/sessions.
func (h *sessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.state.Snapshot()
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionToResponse(sess))
	}
	WriteJSONOK(w, out)
}

// Kick handles DELETE /api/v1/sessions/{id}, forcibly disconnecting a
// connected session the same way the in-protocol DisconnectUser
// transaction does.
func (h *sessionHandler) Kick(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 16)
	if err != nil {
		BadRequest(w, "id must be a user id")
		return
	}

	userID := uint16(id)
	if _, ok := h.state.Get(userID); !ok {
		NotFound(w, "no session with that id is connected")
		return
	}

	h.state.Kick(userID)
	WriteNoContent(w)
}
