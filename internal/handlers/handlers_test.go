package handlers

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
	"github.com/trtpd/trtpd/pkg/accounts/store"
)

func newTestState(t *testing.T) *server.State {
	t.Helper()
	acct, err := store.New(&store.Config{
		Type:   store.DatabaseTypeSQLite,
		SQLite: store.SQLiteConfig{Path: ":memory:"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = acct.Close() })
	return server.New(acct, server.Config{
		ServerName:      "Test Server",
		AllowGuests:     true,
		GuestAccessMask: uint64(trtp.AccessReadChat | trtp.AccessSendChat),
		BannerID:        0,
	})
}

func newTestSession(t *testing.T, st *server.State) *session.Session {
	t.Helper()
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:12345")
	require.NoError(t, err)
	id := st.AllocateUserID()
	sess := session.New(id, addr)
	sess.CompleteHandshake()
	st.Register(sess)
	return sess
}

func createAccount(t *testing.T, st *server.State, login, password, name string, access trtp.AccessMask) string {
	t.Helper()
	account, err := st.Account.Create(context.Background(), login, trtp.Scramble([]byte(password)), name, uint64(access))
	require.NoError(t, err)
	return account.ID
}

func txWithFields(typ trtp.TransactionType, id uint32, fields ...trtp.Field) *trtp.Transaction {
	return &trtp.Transaction{Type: typ, ID: id, Fields: fields}
}
