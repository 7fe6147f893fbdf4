package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trtpd/trtpd/internal/broadcast"
	"github.com/trtpd/trtpd/internal/protocol/trtp"
)

func TestAgreedSetsNicknameAndBroadcasts(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	sess.AuthenticateGuest("Guest", 0, uint64(trtp.AccessReadChat))

	sub := st.Hub.Subscribe()
	defer sub.Unsubscribe()

	tx := txWithFields(trtp.TypeAgreed, 1,
		trtp.StringField(trtp.FieldUserName, "Wanderer"),
		trtp.Uint16Field(trtp.FieldUserIconID, 42),
	)
	result, err := Agreed(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, trtp.ErrorCodeNone, result.Reply.ErrorCode)
	assert.Equal(t, "Wanderer", sess.Nickname)
	assert.Equal(t, uint16(42), sess.IconID)
	require.Len(t, result.Pushes, 1)
	assert.Equal(t, trtp.TypeUserAccess, result.Pushes[0].Type)

	select {
	case ev := <-sub.Events:
		assert.Equal(t, broadcast.UserJoined, ev.Kind)
		assert.Equal(t, sess.UserID, ev.UserID)
	default:
		t.Fatal("expected a UserJoined event")
	}
}

func TestAgreedBlankNicknameFallsBackToGuestName(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	sess.AuthenticateGuest(sess.Nickname, 0, 0)
	original := sess.Nickname

	tx := txWithFields(trtp.TypeAgreed, 1,
		trtp.StringField(trtp.FieldUserName, "   "),
	)
	_, err := Agreed(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.Equal(t, original, sess.Nickname)
}

func TestAgreedDisconnectUsersGrantsAdminAndIcon(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	sess.AuthenticateUser("acct-1", "Admin", 0, uint64(trtp.AccessDisconnectUsers))

	tx := txWithFields(trtp.TypeAgreed, 1,
		trtp.StringField(trtp.FieldUserName, "Admin"),
		trtp.Uint16Field(trtp.FieldUserIconID, 0),
	)
	_, err := Agreed(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.True(t, sess.IsAdmin())
	assert.Equal(t, uint16(legacyAdminIconID), sess.IconID)
}

func TestAgreedDisconnectUsersKeepsNonZeroIcon(t *testing.T) {
	st := newTestState(t)
	sess := newTestSession(t, st)
	sess.AuthenticateUser("acct-1", "Admin", 0, uint64(trtp.AccessDisconnectUsers))

	tx := txWithFields(trtp.TypeAgreed, 1,
		trtp.Uint16Field(trtp.FieldUserIconID, 99),
	)
	_, err := Agreed(context.Background(), st, sess, tx)
	require.NoError(t, err)

	assert.True(t, sess.IsAdmin())
	assert.Equal(t, uint16(99), sess.IconID)
}
