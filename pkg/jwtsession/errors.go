package jwtsession

import "errors"

var (
	ErrInvalidConfig   = errors.New("jwtsession: invalid config")
	ErrForeignToken    = errors.New("jwtsession: token was not produced by this codec")
	ErrMissingData     = errors.New("jwtsession: session data claim has wrong type")
	ErrCookieTooLarge  = errors.New("jwtsession: session cookie exceeds browser limit")
	ErrFingerprintLost = errors.New("jwtsession: fingerprint source unavailable")
)
