package tricipher

import "errors"

var (
	// ErrInvalidKeyLength indicates a master key shorter than MinKeyLength.
	ErrInvalidKeyLength = errors.New("tricipher: master key must be at least 30 integers long")

	// ErrInvalidKeyFormat indicates a serialized master key with a non-numeric element.
	ErrInvalidKeyFormat = errors.New("tricipher: invalid master key format")

	// ErrInvalidKey indicates a master key that fails structural validation.
	ErrInvalidKey = errors.New("tricipher: invalid master key")

	// ErrInvalidInput indicates text that is empty after cleaning, contains a
	// digit, or contains a character outside A-Z.
	ErrInvalidInput = errors.New("tricipher: invalid input")

	// ErrNonInvertibleKey indicates the key matrix determinant shares a factor with 26.
	ErrNonInvertibleKey = errors.New("tricipher: key matrix is not invertible modulo 26")

	// ErrKeyLengthMismatch indicates the transposition key does not fit the data.
	ErrKeyLengthMismatch = errors.New("tricipher: transposition key length mismatch")

	// ErrMatrixSearchExhausted indicates matrix sampling gave up without finding
	// an invertible matrix.
	ErrMatrixSearchExhausted = errors.New("tricipher: no invertible matrix found")
)
