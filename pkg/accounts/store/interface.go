package store

import (
	"context"

	"github.com/trtpd/trtpd/pkg/accounts/models"
)

// AccountStore persists TRTP accounts. Implementations must treat Login as
// case-insensitive for lookup and uniqueness purposes. passwordHash
// arguments and return values are always the scrambled (bitwise-NOT) form
// of the plaintext password, matching the wire encoding -- see
// internal/protocol/trtp.Scramble.
type AccountStore interface {
	// GetByLogin returns the account with the given login, or
	// models.ErrAccountNotFound if none exists.
	GetByLogin(ctx context.Context, login string) (*models.Account, error)

	// GetByID returns the account with the given id, or
	// models.ErrAccountNotFound if none exists.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// Create inserts a new account. Returns models.ErrDuplicateAccount if
	// the login is taken.
	Create(ctx context.Context, login string, passwordHash []byte, name string, accessMask uint64) (*models.Account, error)

	// UpdatePassword replaces an account's scrambled password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error

	// UpdateAccess replaces an account's access mask.
	UpdateAccess(ctx context.Context, id string, accessMask uint64) error

	// Delete removes an account by login.
	Delete(ctx context.Context, login string) error

	// Exists reports whether a login is already taken.
	Exists(ctx context.Context, login string) (bool, error)

	// ListAccounts returns every account, ordered by login.
	ListAccounts(ctx context.Context) ([]*models.Account, error)

	// EnsureAdminAccount creates the bootstrap admin account if no accounts
	// exist yet. Returns the generated plaintext password, or an empty
	// string if no account was created.
	EnsureAdminAccount(ctx context.Context) (string, error)

	// Healthcheck verifies the underlying connection is usable.
	Healthcheck(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
