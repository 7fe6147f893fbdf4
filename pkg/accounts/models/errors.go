package models

import "errors"

// Common errors for account storage operations.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid login or password")
)
