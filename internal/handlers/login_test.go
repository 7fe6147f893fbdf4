package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
)

func TestLoginGuestAllowed(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)

	tx := txWithFields(trtp.TypeLogin, 1)
	result, err := Login(context.Background(), st, sess, tx)
	require.NoError(t, err)

	require.NotNil(t, result.Reply)
	assert.Equal(t, trtp.ErrorCodeNone, result.Reply.ErrorCode)
	assert.True(t, sess.IsAuthenticated())
	assert.True(t, sess.IsGuest())

	userIDField, ok := result.Reply.Field(trtp.FieldUserID)
	require.True(t, ok)
	v, _ := userIDField.AsInteger()
	assert.Equal(t, uint32(sess.UserID), v)

	require.Len(t, result.Pushes, 1)
	assert.Equal(t, trtp.TypeShowAgreement, result.Pushes[0].Type)
}

func TestLoginGuestDeniedWhenDisabled(t *testing.T) {
	st := newTestState(t)
	st.Config.AllowGuests = false
	sess := newTestSession(t, st)

	tx := txWithFields(trtp.TypeLogin, 1)
	result, err := Login(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, trtp.ErrorCodePermissionDenied, result.Reply.ErrorCode)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginWithValidAccount(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	createAccount(t, st, "alice", "hunter2", "Alice", trtp.AccessReadChat|trtp.AccessSendChat)

	tx := txWithFields(trtp.TypeLogin, 1,
		trtp.BytesField(trtp.FieldUserLogin, trtp.Scramble([]byte("alice"))),
		trtp.BytesField(trtp.FieldUserPassword, trtp.Scramble([]byte("hunter2"))),
	)
	result, err := Login(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, trtp.ErrorCodeNone, result.Reply.ErrorCode)
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, sess.IsGuest())
	assert.Equal(t, "Alice", sess.Nickname)
}

func TestLoginWithWrongPassword(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	createAccount(t, st, "alice", "hunter2", "Alice", trtp.AccessReadChat)

	tx := txWithFields(trtp.TypeLogin, 1,
		trtp.BytesField(trtp.FieldUserLogin, trtp.Scramble([]byte("alice"))),
		trtp.BytesField(trtp.FieldUserPassword, trtp.Scramble([]byte("wrong"))),
	)
	result, err := Login(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, trtp.ErrorCodePermissionDenied, result.Reply.ErrorCode)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginWithUnknownAccount(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)

	tx := txWithFields(trtp.TypeLogin, 1,
		trtp.BytesField(trtp.FieldUserLogin, trtp.Scramble([]byte("nobody"))),
		trtp.BytesField(trtp.FieldUserPassword, trtp.Scramble([]byte("whatever"))),
	)
	result, err := Login(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, trtp.ErrorCodePermissionDenied, result.Reply.ErrorCode)
}
