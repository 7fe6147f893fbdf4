package handlers

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
)

func TestGetUserNameListRequiresAuthentication(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)

	tx := txWithFields(trtp.TypeGetUserNameList, 1)
	result, err := GetUserNameList(context.Background(), st, sess, tx)
	require.NoError(t, err)
	assert.Equal(t, trtp.ErrorCodePermissionDenied, result.Reply.ErrorCode)
}

func TestGetUserNameListOnlyListsAuthenticatedSessions(t *testing.T) {
	st := newTestState(t)
	authed := newTestSession(t, st)
	authed.AuthenticateGuest("Alice", 7, uint64(trtp.AccessReadChat))

	pending := newTestSession(t, st)
	_ = pending

	tx := txWithFields(trtp.TypeGetUserNameList, 1)
	result, err := GetUserNameList(context.Background(), st, authed, tx)
	require.NoError(t, err)
	require.Equal(t, trtp.ErrorCodeNone, result.Reply.ErrorCode)
	require.Len(t, result.Reply.Fields, 1)

	entry := result.Reply.Fields[0]
	assert.Equal(t, trtp.FieldUserNameWithInfo, entry.ID)
	assert.Equal(t, authed.UserID, binary.BigEndian.Uint16(entry.Raw[0:2]))
	assert.Equal(t, uint16(7), binary.BigEndian.Uint16(entry.Raw[2:4]))
	nameLen := binary.BigEndian.Uint16(entry.Raw[6:8])
	assert.Equal(t, "Alice", string(entry.Raw[8:8+nameLen]))
}
