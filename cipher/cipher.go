// Package cipher runs the tricipher encode and decode pipelines.
//
// Encoding applies substitute -> Hill multiply -> transpose; decoding applies
// the inverse stages in reverse order. The pipeline is stateless: every call
// depends only on its text and key, so calls may run concurrently.
package cipher

import (
	"fmt"
	"strings"
	"unicode"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/key"
	"github.com/BackendStack21/tricipher-go/stages/hill"
	"github.com/BackendStack21/tricipher-go/stages/substitution"
	"github.com/BackendStack21/tricipher-go/stages/transposition"
)

// Normalize strips all whitespace and uppercases the rest.
// It fails with ErrInvalidInput when nothing is left, when a digit is
// present, or when a character outside A-Z remains.
func Normalize(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			return "", fmt.Errorf("%w: digit %q in input", tricipher.ErrInvalidInput, r)
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: empty after removing whitespace", tricipher.ErrInvalidInput)
	}

	cleaned := strings.ToUpper(b.String())
	for i, r := range cleaned {
		if _, ok := tricipher.LetterToDigit(r); !ok {
			return "", fmt.Errorf("%w: character %q at offset %d is not a letter A-Z",
				tricipher.ErrInvalidInput, r, i)
		}
	}
	return cleaned, nil
}

// CleanLength returns the number of letters Normalize keeps, which is the
// length a key must be generated for.
func CleanLength(text string) (int, error) {
	cleaned, err := Normalize(text)
	if err != nil {
		return 0, err
	}
	return len(cleaned), nil
}

func digitsOf(text string, tr *tricipher.Trace) ([]int, error) {
	cleaned, err := Normalize(text)
	if err != nil {
		return nil, err
	}
	digits, ok := tricipher.LettersToDigits(cleaned)
	if !ok {
		return nil, fmt.Errorf("%w: %q", tricipher.ErrInvalidInput, cleaned)
	}
	tr.Input = text
	tr.Normalized = cleaned
	tr.Digits = digits
	return digits, nil
}

func checkKey(k *key.Key) error {
	if k == nil {
		return fmt.Errorf("%w: nil key", tricipher.ErrInvalidKey)
	}
	return nil
}

// Encode enciphers plaintext with k and returns uppercase ciphertext.
func Encode(plaintext string, k *key.Key) (string, error) {
	tr, err := EncodeTrace(plaintext, k)
	if err != nil {
		return "", err
	}
	return tr.Output, nil
}

// EncodeTrace enciphers plaintext and records every intermediate stage.
func EncodeTrace(plaintext string, k *key.Key) (*tricipher.Trace, error) {
	if err := checkKey(k); err != nil {
		return nil, err
	}
	tr := &tricipher.Trace{}
	digits, err := digitsOf(plaintext, tr)
	if err != nil {
		return nil, err
	}

	tr.Substituted, err = substitution.Apply(k.Substitution(), digits)
	if err != nil {
		return nil, err
	}
	tr.Product, err = hill.Encrypt(k.Matrix(), tr.Substituted)
	if err != nil {
		return nil, err
	}
	tr.Transposed, err = transposition.Apply(k.Transposition(), tr.Product)
	if err != nil {
		return nil, fmt.Errorf("transpose: %w", err)
	}

	tr.Output = tricipher.DigitsToLetters(tr.Transposed)
	return tr, nil
}

// Decode deciphers ciphertext with k.
//
// The padding slot added for odd-length messages is not removed, so such
// messages decode with one extra trailing letter: the letter whose
// substitution image is 26 ('Z' when the key maps Z to itself).
func Decode(ciphertext string, k *key.Key) (string, error) {
	tr, err := DecodeTrace(ciphertext, k)
	if err != nil {
		return "", err
	}
	return tr.Output, nil
}

// DecodeTrace deciphers ciphertext and records every intermediate stage.
// Transposed holds the restored order, Product the inverse Hill output and
// Substituted the inverse substitution output.
func DecodeTrace(ciphertext string, k *key.Key) (*tricipher.Trace, error) {
	if err := checkKey(k); err != nil {
		return nil, err
	}
	tr := &tricipher.Trace{}
	digits, err := digitsOf(ciphertext, tr)
	if err != nil {
		return nil, err
	}

	tr.Transposed, err = transposition.Reverse(k.Transposition(), digits)
	if err != nil {
		return nil, fmt.Errorf("inverse transpose: %w", err)
	}
	tr.Product, err = hill.Decrypt(k.Matrix(), tr.Transposed)
	if err != nil {
		return nil, err
	}
	tr.Substituted = substitution.Reverse(k.InverseSubstitution(), tr.Product)

	tr.Output = tricipher.DigitsToLetters(tr.Substituted)
	return tr, nil
}
