package session

import "errors"

var (
	// ErrNotRepresentable indicates a value that cannot be encoded as JSON
	// (channels, functions, cyclic structures, NaN and the like).
	ErrNotRepresentable = errors.New("session.value_not_representable")

	// ErrNotFound indicates no session is attached to the context
	ErrNotFound = errors.New("session.not_found")

	// ErrTypeMismatch indicates a stored value cannot be decoded into the requested type
	ErrTypeMismatch = errors.New("session.type_mismatch")
)
