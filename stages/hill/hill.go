// Package hill implements the 2x2 Hill cipher stage of tricipher over Z_26.
package hill

import (
	"fmt"
	"io"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/core"
	"github.com/BackendStack21/tricipher-go/utils"
)

const m = tricipher.Modulus

// mod returns x mod m in [0, m).
func mod(x int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// reduce returns x mod m lifted into [1, m]: a non-positive remainder gains m.
func reduce(x int) int {
	r := x % m
	if r <= 0 {
		r += m
	}
	return r
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// FromValues reads a matrix from exactly four values in row-major order.
func FromValues(values []int) (tricipher.Matrix, error) {
	if len(values) != tricipher.MatrixSize {
		return tricipher.Matrix{}, fmt.Errorf("%w: matrix key needs %d values, got %d",
			tricipher.ErrInvalidKeyLength, tricipher.MatrixSize, len(values))
	}
	return tricipher.Matrix{A: values[0], B: values[1], C: values[2], D: values[3]}, nil
}

// Values returns the matrix entries in row-major order.
func Values(mat tricipher.Matrix) [tricipher.MatrixSize]int {
	return [tricipher.MatrixSize]int{mat.A, mat.B, mat.C, mat.D}
}

// Determinant returns (A*D - B*C) mod 26 in [0, 26).
func Determinant(mat tricipher.Matrix) int {
	return mod(mat.A*mat.D - mat.B*mat.C)
}

// ModInverse finds the first x in [1, n) with a*x = 1 (mod n) by exhaustive search.
// ok is false when a has no inverse modulo n.
func ModInverse(a, n int) (x int, ok bool) {
	a = ((a % n) + n) % n
	for x = 1; x < n; x++ {
		if (a*x)%n == 1 {
			return x, true
		}
	}
	return 0, false
}

// IsInvertible reports whether gcd(det, 26) == 1.
func IsInvertible(mat tricipher.Matrix) bool {
	return gcd(Determinant(mat), m) == 1
}

// Inverse computes the inverse key matrix [[D, -B], [-C, A]] * det^-1 mod 26.
// Every entry is normalized into [1, 26].
func Inverse(mat tricipher.Matrix) (tricipher.Matrix, error) {
	det := Determinant(mat)
	invDet, ok := ModInverse(det, m)
	if !ok {
		return tricipher.Matrix{}, fmt.Errorf("%w: determinant %d", tricipher.ErrNonInvertibleKey, det)
	}
	return tricipher.Matrix{
		A: reduce(mat.D * invDet),
		B: reduce(-mat.B * invDet),
		C: reduce(-mat.C * invDet),
		D: reduce(mat.A * invDet),
	}, nil
}

// Pad appends a single zero padding slot when values has odd length.
// The returned slice never aliases values.
func Pad(values []int) []int {
	out := make([]int, len(values), utils.PadToBlock(len(values), tricipher.BlockSize))
	copy(out, values)
	if len(values)%tricipher.BlockSize != 0 {
		out = append(out, 0)
	}
	return out
}

// Multiply treats consecutive pairs (x, y) as column vectors and returns
// mat*(x, y) mod 26 for each, with results in [1, 26].
func Multiply(mat tricipher.Matrix, values []int) ([]int, error) {
	if len(values)%tricipher.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %d values do not form 2-element blocks",
			tricipher.ErrKeyLengthMismatch, len(values))
	}
	out := make([]int, len(values))
	for i := 0; i < len(values); i += tricipher.BlockSize {
		x, y := values[i], values[i+1]
		out[i] = reduce(mat.A*x + mat.B*y)
		out[i+1] = reduce(mat.C*x + mat.D*y)
	}
	return out, nil
}

// Encrypt pads values to even length and multiplies by mat.
func Encrypt(mat tricipher.Matrix, values []int) ([]int, error) {
	return Multiply(mat, Pad(values))
}

// Decrypt multiplies values by the inverse of mat.
func Decrypt(mat tricipher.Matrix, values []int) ([]int, error) {
	inv, err := Inverse(mat)
	if err != nil {
		return nil, err
	}
	return Multiply(inv, values)
}

// Sample draws four entries uniformly from [params.MatrixMin, params.MatrixMax]
// until the matrix is invertible mod 26.
func Sample(r io.Reader, params core.Params) (tricipher.Matrix, error) {
	for attempt := 0; attempt < params.MaxMatrixAttempts; attempt++ {
		var v [tricipher.MatrixSize]int
		for i := range v {
			x, err := utils.RandomIntRange(r, params.MatrixMin, params.MatrixMax)
			if err != nil {
				return tricipher.Matrix{}, err
			}
			v[i] = x
		}
		mat := tricipher.Matrix{A: v[0], B: v[1], C: v[2], D: v[3]}
		if IsInvertible(mat) {
			return mat, nil
		}
	}
	return tricipher.Matrix{}, fmt.Errorf("%w after %d attempts",
		tricipher.ErrMatrixSearchExhausted, params.MaxMatrixAttempts)
}
