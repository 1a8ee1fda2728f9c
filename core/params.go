// Package core provides the key generation parameters for tricipher and their validation.
package core

import (
	"errors"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/utils"
)

// Params controls how keys are sampled.
type Params struct {
	// MatrixMin and MatrixMax bound the entries of a generated Hill matrix (inclusive).
	MatrixMin int `json:"matrix_min"`
	MatrixMax int `json:"matrix_max"`
	// MaxMatrixAttempts caps the invertible-matrix rejection loop.
	MaxMatrixAttempts int `json:"max_matrix_attempts"`
	// MaxMessageLength caps the message length a key can be generated for.
	MaxMessageLength int `json:"max_message_length"`
}

// DefaultParams samples matrix entries in [1, 26].
// About a third of all matrices are invertible mod 26, so the loop cap is
// never reached with a working random source.
var DefaultParams = Params{
	MatrixMin:         1,
	MatrixMax:         tricipher.Modulus,
	MaxMatrixAttempts: 1024,
	MaxMessageLength:  utils.MaxMessageLength,
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params Params) error {
	if params.MatrixMin > params.MatrixMax {
		return errors.New("matrix entry range is empty")
	}
	if params.MatrixMax-params.MatrixMin+1 < tricipher.Modulus {
		return errors.New("matrix entry range must cover every residue mod 26")
	}
	if params.MaxMatrixAttempts <= 0 {
		return errors.New("matrix attempt cap must be positive")
	}
	if params.MaxMessageLength <= 0 {
		return errors.New("max message length must be positive")
	}
	if params.MaxMessageLength > utils.MaxMessageLength {
		return errors.New("max message length exceeds the allocation limit")
	}
	return nil
}
