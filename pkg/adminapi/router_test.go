package adminapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	internalserver "github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/pkg/accounts/store"
	"github.com/trtpd/trtpd/pkg/adminapi/auth"
)

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	accountStore, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = accountStore.Close() })

	state := internalserver.New(accountStore, internalserver.Config{})

	jwtService, err := auth.NewJWTService(auth.Config{
		Secret: "test-secret-key-that-is-at-least-32-characters-long",
	})
	if err != nil {
		t.Fatalf("NewJWTService: %v", err)
	}

	hash, err := auth.HashPassword("operator-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	operator := auth.Operator{Username: "admin", PasswordHash: hash}

	router := NewRouter(state, jwtService, operator)

	token, _, err := jwtService.IssueToken("admin")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return router, token
}

func TestRouter_HealthLiveness(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouter_AccountsRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRouter_CreateAndListAccount(t *testing.T) {
	router, token := newTestRouter(t)

	body, _ := json.Marshal(createAccountRequest{Login: "alice", Password: "hunter2", Name: "Alice", AccessMask: 0x1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRR := httptest.NewRecorder()
	router.ServeHTTP(listRR, listReq)

	if listRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listRR.Code)
	}

	var accounts []accountResponse
	if err := json.Unmarshal(listRR.Body.Bytes(), &accounts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Login != "alice" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestRouter_Login(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "operator-password"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("expected non-empty access token")
	}
}

func TestRouter_Login_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	body, _ := json.Marshal(loginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
