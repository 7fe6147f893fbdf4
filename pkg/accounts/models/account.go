package models

import "time"

// Account represents a registered TRTP login, the durable counterpart to a
// Session. Accounts are looked up case-insensitively by login and carry a
// persistent access mask that seeds a session's privileges once a user
// authenticates.
//
// PasswordHash stores the scrambled (bitwise-NOT) form of the plaintext
// password, matching the wire format clients already send -- see
// internal/protocol/trtp.Scramble/VerifyScrambledPassword. This is not a
// cryptographic hash; it exists purely for interoperability with clients
// that scramble credentials the same way on the wire.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Login        string    `gorm:"uniqueIndex;not null;size:31" json:"login"`
	PasswordHash []byte    `gorm:"not null" json:"-"`
	Name         string    `gorm:"size:31" json:"name"`
	AccessMask   uint64    `gorm:"not null;default:0" json:"access_mask"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Account.
func (Account) TableName() string {
	return "accounts"
}

// AdminLogin is the login of the account the store bootstraps on first run
// when no accounts exist yet.
const AdminLogin = "admin"

// EnvAdminInitialPassword, when set, fixes the bootstrap admin's password
// instead of generating a random one.
const EnvAdminInitialPassword = "TRTPD_ADMIN_PASSWORD"
