package adminapi

import (
	"net/http"
	"time"

	"github.com/trtpd/trtpd/pkg/adminapi/auth"
)

// authHandler serves the operator login endpoint.
type authHandler struct {
	operator   auth.Operator
	jwtService *auth.JWTService
}

func newAuthHandler(operator auth.Operator, jwtService *auth.JWTService) *authHandler {
	return &authHandler{operator: operator, jwtService: jwtService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Login handles POST /api/v1/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		BadRequest(w, "username and password are required")
		return
	}

	if err := h.operator.Authenticate(req.Username, req.Password); err != nil {
		Unauthorized(w, "invalid username or password")
		return
	}

	token, expiresAt, err := h.jwtService.IssueToken(req.Username)
	if err != nil {
		InternalServerError(w, "failed to issue token")
		return
	}

	WriteJSONOK(w, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwtService.TokenTTL().Seconds()),
		ExpiresAt:   expiresAt,
	})
}
