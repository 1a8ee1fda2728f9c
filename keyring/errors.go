package keyring

import "errors"

var (
	// ErrKeyNotFound indicates no stored key matches the reference.
	ErrKeyNotFound = errors.New("keyring: key not found")

	// ErrNilKey indicates a nil key was passed to Put.
	ErrNilKey = errors.New("keyring: key is nil")

	// ErrDuplicateName indicates another stored key already uses the name.
	ErrDuplicateName = errors.New("keyring: duplicate key name")

	// ErrAmbiguousRef indicates a reference prefix matches more than one key.
	ErrAmbiguousRef = errors.New("keyring: ambiguous key reference")

	// ErrCorruptRecord indicates a stored key whose fingerprint no longer matches.
	ErrCorruptRecord = errors.New("keyring: stored key fingerprint mismatch")
)
