package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Operator.Authenticate when the
// username or password does not match the configured operator account.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Operator is the single built-in admin-API account, configured from
// pkg/config.AdminAPIConfig rather than stored in the account database.
type Operator struct {
	Username     string
	PasswordHash string
}

// Authenticate checks username and password against the configured
// operator account in constant time with respect to the username
// comparison, with bcrypt providing the password comparison's own timing
// safety.
func (o Operator) Authenticate(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(o.Username)) != 1 {
		// Still run a bcrypt comparison so a missing-username response takes
		// roughly the same time as a wrong-password one.
		_ = bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword bcrypt-hashes a plaintext operator password for storage in
// AdminAPIConfig.OperatorPasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
