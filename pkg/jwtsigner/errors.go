package jwtsigner

import "errors"

var (
	ErrUnsupportedAlgorithm    = errors.New("jwtsigner: unsupported algorithm")
	ErrMissingKey              = errors.New("jwtsigner: missing key")
	ErrInvalidKey              = errors.New("jwtsigner: invalid key")
	ErrInvalidToken            = errors.New("jwtsigner: invalid token")
	ErrInvalidSignature        = errors.New("jwtsigner: invalid signature")
	ErrUnexpectedSigningMethod = errors.New("jwtsigner: unexpected signing method")
	ErrUnknownKeyID            = errors.New("jwtsigner: unknown key id")
)
