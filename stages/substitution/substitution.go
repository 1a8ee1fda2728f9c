// Package substitution implements the monoalphabetic substitution stage of tricipher.
package substitution

import (
	"fmt"
	"io"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/utils"
)

// FromValues builds a table from the first 26 entries of values.
// Entries are taken as-is; use IsPermutation to check them.
func FromValues(values []int) (tricipher.SubstitutionTable, error) {
	var t tricipher.SubstitutionTable
	if len(values) < tricipher.SubstitutionSize {
		return t, fmt.Errorf("%w: substitution key needs %d values, got %d",
			tricipher.ErrInvalidKeyLength, tricipher.SubstitutionSize, len(values))
	}
	copy(t[:], values[:tricipher.SubstitutionSize])
	return t, nil
}

// Sample draws a uniformly random permutation of 1..26 from r.
func Sample(r io.Reader) (tricipher.SubstitutionTable, error) {
	var t tricipher.SubstitutionTable
	perm, err := utils.Permutation(r, tricipher.SubstitutionSize, 1)
	if err != nil {
		return t, err
	}
	copy(t[:], perm)
	return t, nil
}

// Invert computes the inverse lookup table.
// Images outside 1..26 are skipped. When an image occurs twice, the larger digit wins.
func Invert(t tricipher.SubstitutionTable) tricipher.InverseTable {
	var inv tricipher.InverseTable
	for i, v := range t {
		if v >= 1 && v <= tricipher.Modulus {
			inv[v] = i + 1
		}
	}
	return inv
}

// IsPermutation reports whether t is a permutation of 1..26.
func IsPermutation(t tricipher.SubstitutionTable) bool {
	var seen [tricipher.Modulus + 1]bool
	for _, v := range t {
		if v < 1 || v > tricipher.Modulus || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Apply replaces each digit d (1..26) with t[d-1].
func Apply(t tricipher.SubstitutionTable, digits []int) ([]int, error) {
	out := make([]int, len(digits))
	for i, d := range digits {
		if d < 1 || d > tricipher.SubstitutionSize {
			return nil, fmt.Errorf("%w: digit %d at position %d", tricipher.ErrInvalidInput, d, i)
		}
		out[i] = t[d-1]
	}
	return out, nil
}

// Reverse maps each value through inv. Values that have no preimage are
// passed through unchanged so decoding stays total for foreign keys.
func Reverse(inv tricipher.InverseTable, values []int) []int {
	out := make([]int, len(values))
	for i, v := range values {
		if v >= 1 && v <= tricipher.Modulus && inv[v] != 0 {
			out[i] = inv[v]
			continue
		}
		out[i] = v
	}
	return out
}
