package handlers

import (
	"context"
	"errors"

	"github.com/trtpd/trtpd/internal/protocol/trtp"
	"github.com/trtpd/trtpd/internal/server"
	"github.com/trtpd/trtpd/internal/session"
	"github.com/trtpd/trtpd/pkg/accounts/models"
)

// NewUser creates an account. The submitted login and password arrive
// scrambled on the wire and are stored exactly as received: scrambling is
// its own inverse, so the stored bytes double as both the wire form and
// the value Login's password check compares against.
func NewUser(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessCreateUsers) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	loginField, ok := tx.Field(trtp.FieldUserLogin)
	if !ok || len(loginField.Raw) == 0 {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	passwordField, ok := tx.Field(trtp.FieldUserPassword)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}

	login := string(trtp.Scramble(loginField.Raw))
	name := ""
	if f, ok := tx.Field(trtp.FieldUserName); ok {
		name = string(f.Raw)
	}
	var access trtp.AccessMask
	if f, ok := tx.Field(trtp.FieldUserAccess); ok {
		access, _ = wireAccess(f)
	}

	if _, err := st.Account.Create(ctx, login, passwordField.Raw, name, uint64(access)); err != nil {
		if errors.Is(err, models.ErrDuplicateAccount) {
			return reply(tx.Type, tx.ID, trtp.ErrorCodeAlreadyExists), nil
		}
		return nil, err
	}

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
}

// GetUser returns an existing account's name, login, and access mask.
func GetUser(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessOpenUser) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	loginField, ok := tx.Field(trtp.FieldUserLogin)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	login := string(trtp.Scramble(loginField.Raw))

	account, err := st.Account.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return reply(tx.Type, tx.ID, trtp.ErrorCodeNotFound), nil
		}
		return nil, err
	}

	wire := trtp.AccessMask(account.AccessMask).ToWire()
	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone,
		trtp.StringField(trtp.FieldUserName, account.Name),
		trtp.BytesField(trtp.FieldUserLogin, trtp.Scramble([]byte(account.Login))),
		trtp.BytesField(trtp.FieldUserAccess, wire[:]),
	), nil
}

// SetUser updates an existing account's password and/or access mask. A
// field absent from the request is left unchanged.
func SetUser(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessModifyUsers) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	loginField, ok := tx.Field(trtp.FieldUserLogin)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	login := string(trtp.Scramble(loginField.Raw))

	account, err := st.Account.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return reply(tx.Type, tx.ID, trtp.ErrorCodeNotFound), nil
		}
		return nil, err
	}

	if f, ok := tx.Field(trtp.FieldUserPassword); ok && len(f.Raw) > 0 {
		if err := st.Account.UpdatePassword(ctx, account.ID, f.Raw); err != nil {
			return nil, err
		}
	}
	if f, ok := tx.Field(trtp.FieldUserAccess); ok {
		if access, ok := wireAccess(f); ok {
			if err := st.Account.UpdateAccess(ctx, account.ID, uint64(access)); err != nil {
				return nil, err
			}
		}
	}

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
}

// DeleteUser removes an account by login.
func DeleteUser(ctx context.Context, st *server.State, sess *session.Session, tx *trtp.Transaction) (*Result, error) {
	if !checkPrivilege(sess, trtp.AccessDeleteUsers) {
		return reply(tx.Type, tx.ID, trtp.ErrorCodePermissionDenied), nil
	}

	loginField, ok := tx.Field(trtp.FieldUserLogin)
	if !ok {
		return reply(tx.Type, tx.ID, trtp.ErrorCodeInvalidParameter), nil
	}
	login := string(trtp.Scramble(loginField.Raw))

	if err := st.Account.Delete(ctx, login); err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return reply(tx.Type, tx.ID, trtp.ErrorCodeNotFound), nil
		}
		return nil, err
	}

	return reply(tx.Type, tx.ID, trtp.ErrorCodeNone), nil
}
