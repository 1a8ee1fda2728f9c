// Package transposition implements the position-shuffling stage of tricipher.
package transposition

import (
	"fmt"
	"io"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/utils"
)

// Sample draws a uniformly random permutation of 0..n-1 from r.
func Sample(r io.Reader, n int) ([]int, error) {
	return utils.Permutation(r, n, 0)
}

// IsPermutation reports whether key holds every index in [0, len(key)) exactly once.
func IsPermutation(key []int) bool {
	seen := make([]bool, len(key))
	for _, idx := range key {
		if idx < 0 || idx >= len(key) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

func checkFit(key, values []int) error {
	if len(key) != len(values) {
		return fmt.Errorf("%w: key covers %d positions, data has %d",
			tricipher.ErrKeyLengthMismatch, len(key), len(values))
	}
	return nil
}

func checkIndex(idx, n, pos int) error {
	if idx < 0 || idx >= n {
		return fmt.Errorf("%w: index %d at position %d outside [0, %d)",
			tricipher.ErrKeyLengthMismatch, idx, pos, n)
	}
	return nil
}

// Apply returns out with out[i] = values[key[i]].
func Apply(key, values []int) ([]int, error) {
	if err := checkFit(key, values); err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, idx := range key {
		if err := checkIndex(idx, len(values), i); err != nil {
			return nil, err
		}
		out[i] = values[idx]
	}
	return out, nil
}

// Reverse undoes Apply: out[key[i]] = values[i].
// A key with repeated indices leaves the unreferenced positions zero.
func Reverse(key, values []int) ([]int, error) {
	if err := checkFit(key, values); err != nil {
		return nil, err
	}
	out := make([]int, len(values))
	for i, idx := range key {
		if err := checkIndex(idx, len(values), i); err != nil {
			return nil, err
		}
		out[idx] = values[i]
	}
	return out, nil
}
