package adminapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/pkg/accounts/models"
	"github.com/trtpd/trtpd/pkg/accounts/store"
)

// accountHandler manages TRTP accounts over the admin API. Passwords never
// cross this boundary in their scrambled wire form -- operators send and
// receive plaintext, and this handler does the bitwise-NOT scrambling the
// wire protocol expects before it ever reaches the store.
type accountHandler struct {
	store store.AccountStore
}

func newAccountHandler(accountStore store.AccountStore) *accountHandler {
	return &accountHandler{store: accountStore}
}

// accountResponse is the sanitized representation returned to operators;
// it never includes the password hash.
type accountResponse struct {
	ID         string `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name"`
	AccessMask uint64 `json:"access_mask"`
}

func accountToResponse(a *models.Account) accountResponse {
	return accountResponse{ID: a.ID, Login: a.Login, Name: a.Name, AccessMask: a.AccessMask}
}

type createAccountRequest struct {
	Login      string `json:"login"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	AccessMask uint64 `json:"access_mask"`
}

// Create handles POST /api/v1/accounts.
func (h *accountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Login == "" {
		BadRequest(w, "login is required")
		return
	}

	account, err := h.store.Create(r.Context(), req.Login, trtp.Scramble([]byte(req.Password)), req.Name, req.AccessMask)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateAccount) {
			Conflict(w, "an account with that login already exists")
			return
		}
		InternalServerError(w, "failed to create account")
		return
	}

	WriteJSONCreated(w, accountToResponse(account))
}

// List handles GET /api/v1/accounts.
func (h *accountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		InternalServerError(w, "failed to list accounts")
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountToResponse(a))
	}
	WriteJSONOK(w, out)
}

// Get handles GET /api/v1/accounts/{login}.
func (h *accountHandler) Get(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	account, err := h.store.GetByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "account not found")
			return
		}
		InternalServerError(w, "failed to get account")
		return
	}
	WriteJSONOK(w, accountToResponse(account))
}

type updateAccountRequest struct {
	Password   *string `json:"password,omitempty"`
	AccessMask *uint64 `json:"access_mask,omitempty"`
}

// Update handles PUT /api/v1/accounts/{login}, changing the password and/or
// access mask. Either field may be omitted to leave it unchanged.
func (h *accountHandler) Update(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")

	var req updateAccountRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	account, err := h.store.GetByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "account not found")
			return
		}
		InternalServerError(w, "failed to get account")
		return
	}

	if req.Password != nil {
		if err := h.store.UpdatePassword(r.Context(), account.ID, trtp.Scramble([]byte(*req.Password))); err != nil {
			InternalServerError(w, "failed to update password")
			return
		}
	}
	if req.AccessMask != nil {
		if err := h.store.UpdateAccess(r.Context(), account.ID, *req.AccessMask); err != nil {
			InternalServerError(w, "failed to update access mask")
			return
		}
	}

	account, err = h.store.GetByLogin(r.Context(), login)
	if err != nil {
		InternalServerError(w, "failed to reload account")
		return
	}
	WriteJSONOK(w, accountToResponse(account))
}

// Delete handles DELETE /api/v1/accounts/{login}.
func (h *accountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	if err := h.store.Delete(r.Context(), login); err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			NotFound(w, "account not found")
			return
		}
		InternalServerError(w, "failed to delete account")
		return
	}
	WriteNoContent(w)
}
