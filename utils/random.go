package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
	"math/bits"
	"runtime"
)

// RandReader is the entropy source for unseeded key generation.
// Tests may swap it for a deterministic stream.
var RandReader io.Reader = rand.Reader

// Seed checks.
var (
	ErrSeedTooShort   = errors.New("utils: seed must be at least 32 bytes")
	ErrSeedLowEntropy = errors.New("utils: seed has low entropy")
)

// SecureRandomBytes reads n bytes from RandReader.
func SecureRandomBytes(n int) ([]byte, error) {
	buf, err := SafeMakeByteSlice(n, MaxKeyLength)
	if err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomIntFrom draws a uniform integer in [0, n) from r by masking to the
// bit width of n-1 and rejecting values that fall outside the range.
func RandomIntFrom(r io.Reader, n int) (int, error) {
	switch {
	case n <= 0:
		return 0, errors.New("utils: upper bound must be positive")
	case n == 1:
		return 0, nil
	}

	width := bits.Len(uint(n - 1))
	mask := uint64(1)<<width - 1
	var buf [8]byte
	chunk := buf[:(width+7)/8]

	for {
		if _, err := io.ReadFull(r, chunk); err != nil {
			return 0, err
		}
		var v uint64
		for _, b := range chunk {
			v = v<<8 | uint64(b)
		}
		if v &= mask; v < uint64(n) {
			return int(v), nil
		}
	}
}

// RandomIntRange draws a uniform integer in [lo, hi] from r.
func RandomIntRange(r io.Reader, lo, hi int) (int, error) {
	if hi < lo {
		return 0, errors.New("utils: empty range")
	}
	v, err := RandomIntFrom(r, hi-lo+1)
	return lo + v, err
}

// Permutation shuffles offset..offset+n-1 with Fisher-Yates driven by r.
func Permutation(r io.Reader, n, offset int) ([]int, error) {
	perm, err := SafeMakeIntSlice(n, MaxKeyLength)
	if err != nil {
		return nil, err
	}
	for i := range perm {
		perm[i] = offset + i
	}
	for i := n - 1; i > 0; i-- {
		j, err := RandomIntFrom(r, i+1)
		if err != nil {
			return nil, err
		}
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm, nil
}

// ValidateSeedEntropy rejects seeds that are short, constant, a running
// byte sequence, or built from fewer than 8 distinct byte values.
// It is a sanity check only.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < 32 {
		return ErrSeedTooShort
	}

	up, down := true, true
	for i := 1; i < len(seed); i++ {
		up = up && seed[i] == seed[i-1]+1
		down = down && seed[i] == seed[i-1]-1
	}
	if up || down {
		return errors.Join(ErrSeedLowEntropy, errors.New("sequential pattern"))
	}

	var seen [256]bool
	distinct := 0
	for _, b := range seed {
		if !seen[b] {
			seen[b] = true
			distinct++
		}
	}
	switch {
	case distinct == 1:
		return errors.Join(ErrSeedLowEntropy, errors.New("all bytes identical"))
	case distinct < 8:
		return errors.Join(ErrSeedLowEntropy, errors.New("fewer than 8 distinct bytes"))
	}
	return nil
}

// ConstantTimeEqual compares a and b without leaking where they differ.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ZeroizeInts overwrites s with zeros.
func ZeroizeInts(s []int) {
	clear(s)
	runtime.KeepAlive(s)
}
