package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
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
	})
}

// pipeConn adapts net.Pipe's net.Conn so tests can exercise Connection.Serve
// without a real listener.
func newPipe(t *testing.T) (client, serverSide net.Conn) {
	t.Helper()
	client, serverSide = net.Pipe()
	t.Cleanup(func() {
		_ = client.Close()
		_ = serverSide.Close()
	})
	return client, serverSide
}

func clientHandshake() []byte {
	buf := make([]byte, 12)
	copy(buf[0:4], "TRTP")
	buf[8] = 0
	buf[9] = 1 // version 1, big-endian u16
	return buf
}
