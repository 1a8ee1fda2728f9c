// Package utils provides utility functions for tricipher.
// This file contains bounded allocation helpers that keep key and message
// sizes within sane limits.

package utils

import (
	"errors"
	"fmt"
)

const (
	// MaxMessageLength is the longest cleaned message a key can be generated for.
	MaxMessageLength = 1 << 20

	// MaxKeyLength is the longest master key accepted: a 30-entry header plus
	// a transposition key for the longest message.
	MaxKeyLength = MaxMessageLength + 30
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("utils: value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("utils: invalid length")
)

// SafeMakeIntSlice creates an int slice with bounds checking.
// Returns error if count is negative or exceeds maxAllowed.
func SafeMakeIntSlice(count, maxAllowed int) ([]int, error) {
	if err := CheckLength(count, maxAllowed); err != nil {
		return nil, err
	}
	return make([]int, count), nil
}

// SafeMakeByteSlice creates a byte slice with bounds checking.
func SafeMakeByteSlice(count, maxAllowed int) ([]byte, error) {
	if err := CheckLength(count, maxAllowed); err != nil {
		return nil, err
	}
	return make([]byte, count), nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if length > maxAllowed {
		return fmt.Errorf("%w: %d > %d", ErrExceedsLimit, length, maxAllowed)
	}
	return nil
}

// PadToBlock rounds n up to the next multiple of block.
func PadToBlock(n, block int) int {
	if r := n % block; r != 0 {
		return n + block - r
	}
	return n
}
