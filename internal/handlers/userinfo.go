package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
)

// GetClientInfoText returns a human-readable info block about another
// connected user, the same text the legacy client renders in its "Get
// Info" window.
func GetClientInfoText(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessGetUserInfo) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	f, ok := tx.Field(trtp.FieldUserID)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	v, ok := f.AsInteger()
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	targetID := uint16(v)

	target, ok := st.Get(targetID)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeNotFound), nil
	}

	accountName, accountLogin := "Guest", "Guest"
	if target.AccountID != nil {
		if account, err := st.Account.GetByID(ctx, *target.AccountID); err == nil {
			accountName = account.Name
			accountLogin = account.Login
		}
	}

	away := "No"
	if target.IsAway() && target.AwaySince != nil {
		away = humanizeDuration(time.Since(*target.AwaySince))
	}

	info := strings.Join([]string{
		fmt.Sprintf("Nickname:   %s", target.Nickname),
		fmt.Sprintf("User ID:    %d", target.UserID),
		fmt.Sprintf("Icon:       %d", target.IconID),
		fmt.Sprintf("Away:       %s", away),
		fmt.Sprintf("Name:       %s", accountName),
		fmt.Sprintf("Account:    %s", accountLogin),
		fmt.Sprintf("Address:    %s", target.Address.String()),
	}, "\r")

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone,
		trtp.StringField(trtp.FieldData, info),
		trtp.StringField(trtp.FieldUserName, target.Nickname),
		trtp.Uint16Field(trtp.FieldUserIconID, target.IconID),
	), nil
}

// humanizeDuration renders d the way the legacy client's info window shows
// an away duration, escalating the unit set as the duration grows.
func humanizeDuration(d time.Duration) string {
	total := int(d.Seconds())
	sec := total % 60
	min := (total / 60) % 60
	hr := (total / 3600) % 24
	day := total / 86400

	switch {
	case total < 60:
		return fmt.Sprintf("%d sec", sec)
	case total < 3600:
		return fmt.Sprintf("%d min %d sec", min, sec)
	case total < 86400:
		return fmt.Sprintf("%d hr %d min %d sec", hr, min, sec)
	default:
		return fmt.Sprintf("%d day %d hr %d min %d sec", day, hr, min, sec)
	}
}
