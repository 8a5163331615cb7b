package fingerprint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid is the parent of every validation failure; match it with
	// errors.Is to treat all fingerprint rejections alike.
	ErrInvalid = errors.New("fingerprint: invalid")

	// ErrMismatch indicates the fingerprint claim differs from the one computed
	// for the current request. Probable token replay from another client.
	ErrMismatch = fmt.Errorf("%w: mismatch", ErrInvalid)

	// ErrMissingClaim indicates a token without a fingerprint claim while
	// fingerprinting is enabled.
	ErrMissingClaim = fmt.Errorf("%w: missing claim", ErrInvalid)

	// ErrSourceMissing indicates the request lacks metadata a configured source
	// requires. This is an environment error, not a client error.
	ErrSourceMissing = errors.New("fingerprint: source value missing")

	// ErrUnknownSource is returned by SourceByName.
	ErrUnknownSource = errors.New("fingerprint: unknown source")
)
