// Package key implements the tricipher master key: parsing, generation and
// the three sub-keys derived from it.
//
// A master key is an ordered integer sequence of at least 30 entries:
//
//	[0, 26)        substitution table, a permutation of 1..26
//	[26, 30)       Hill matrix [[a, b], [c, d]] with det invertible mod 26
//	[30, 30+m)     transposition key, a permutation of 0..m-1
//
// where m is the padded (even) message length. Keys are immutable once built
// and safe for concurrent use.
package key

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/core"
	"github.com/BackendStack21/tricipher-go/stages/hill"
	"github.com/BackendStack21/tricipher-go/stages/substitution"
	"github.com/BackendStack21/tricipher-go/stages/transposition"
	"github.com/BackendStack21/tricipher-go/utils"
)

const (
	// DomainGenerate separates the SHAKE256 stream used for seeded generation.
	DomainGenerate = "tricipher-key-generate-v1"
	// DomainFingerprint separates the SHA3-256 key fingerprint.
	DomainFingerprint = "tricipher-key-fingerprint-v1"
)

// Key is a parsed master key.
type Key struct {
	master []int
	sub    tricipher.SubstitutionTable
	mat    tricipher.Matrix
	trans  []int

	invOnce sync.Once
	inv     tricipher.InverseTable
}

// FromValues builds a key from an explicit master key.
// Only the length is checked: fewer than 30 values is ErrInvalidKeyLength and
// more than utils.MaxKeyLength is utils.ErrExceedsLimit. Permutation and
// invertibility problems surface when the key is used, or up front through
// Validate.
func FromValues(values []int) (*Key, error) {
	if len(values) < tricipher.MinKeyLength {
		return nil, fmt.Errorf("%w: got %d", tricipher.ErrInvalidKeyLength, len(values))
	}
	if err := utils.CheckLength(len(values), utils.MaxKeyLength); err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	return parse(slices.Clone(values))
}

func parse(master []int) (*Key, error) {
	sub, err := substitution.FromValues(master[:tricipher.SubstitutionSize])
	if err != nil {
		return nil, err
	}
	mat, err := hill.FromValues(master[tricipher.SubstitutionSize:tricipher.HeaderSize])
	if err != nil {
		return nil, err
	}
	return &Key{
		master: master,
		sub:    sub,
		mat:    mat,
		trans:  slices.Clone(master[tricipher.HeaderSize:]),
	}, nil
}

// Generate creates a random key for a message of messageLength letters
// using the system CSPRNG.
func Generate(messageLength int) (*Key, error) {
	return GenerateWithReader(utils.RandReader, messageLength, core.DefaultParams)
}

// GenerateFromSeed derives a key deterministically from seed.
// The same seed and length always give the same key.
func GenerateFromSeed(seed []byte, messageLength int) (*Key, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return GenerateWithReader(utils.NewShakeStream(DomainGenerate, seed), messageLength, core.DefaultParams)
}

// GenerateWithReader creates a key drawing all randomness from r.
// The message length is padded up to an even number; the resulting key has
// 30 + padded length entries.
func GenerateWithReader(r io.Reader, messageLength int, params core.Params) (*Key, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := utils.CheckLength(messageLength, params.MaxMessageLength); err != nil {
		return nil, fmt.Errorf("message length: %w", err)
	}
	padded := utils.PadToBlock(messageLength, tricipher.BlockSize)

	sub, err := substitution.Sample(r)
	if err != nil {
		return nil, fmt.Errorf("sample substitution key: %w", err)
	}
	mat, err := hill.Sample(r, params)
	if err != nil {
		return nil, fmt.Errorf("sample matrix key: %w", err)
	}
	trans, err := transposition.Sample(r, padded)
	if err != nil {
		return nil, fmt.Errorf("sample transposition key: %w", err)
	}

	master := make([]int, 0, tricipher.HeaderSize+padded)
	master = append(master, sub[:]...)
	mv := hill.Values(mat)
	master = append(master, mv[:]...)
	master = append(master, trans...)
	return parse(master)
}

// Parse reads the comma-separated serialization produced by String.
// Whitespace around each element is ignored.
func Parse(s string) (*Key, error) {
	parts := strings.Split(s, ",")
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", tricipher.ErrInvalidKeyFormat, i, err)
		}
		values[i] = v
	}
	return FromValues(values)
}

// String serializes the master key as comma-separated decimal integers.
func (k *Key) String() string {
	var b strings.Builder
	for i, v := range k.master {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// MasterKey returns a copy of the full master key.
func (k *Key) MasterKey() []int { return slices.Clone(k.master) }

// Len returns the master key length.
func (k *Key) Len() int { return len(k.master) }

// MessageCapacity is the padded message length the transposition key covers.
func (k *Key) MessageCapacity() int { return len(k.trans) }

// Substitution returns the substitution table.
func (k *Key) Substitution() tricipher.SubstitutionTable { return k.sub }

// InverseSubstitution returns the inverse substitution table, computed on first use.
func (k *Key) InverseSubstitution() tricipher.InverseTable {
	k.invOnce.Do(func() {
		k.inv = substitution.Invert(k.sub)
	})
	return k.inv
}

// Matrix returns the Hill matrix.
func (k *Key) Matrix() tricipher.Matrix { return k.mat }

// Transposition returns a copy of the transposition key.
func (k *Key) Transposition() []int { return slices.Clone(k.trans) }

// Validate checks the key strictly: a permutation of 1..26, an invertible
// matrix, and an even-length permutation of 0..m-1. All problems found are
// reported together.
func (k *Key) Validate() error {
	var errs []error
	if !substitution.IsPermutation(k.sub) {
		errs = append(errs, fmt.Errorf("%w: substitution key is not a permutation of 1..26", tricipher.ErrInvalidKey))
	}
	if !hill.IsInvertible(k.mat) {
		errs = append(errs, fmt.Errorf("%w: matrix determinant %d is not invertible mod 26",
			tricipher.ErrInvalidKey, hill.Determinant(k.mat)))
	}
	if !transposition.IsPermutation(k.trans) {
		errs = append(errs, fmt.Errorf("%w: transposition key is not a permutation of 0..%d",
			tricipher.ErrInvalidKey, len(k.trans)-1))
	}
	if len(k.trans)%tricipher.BlockSize != 0 {
		errs = append(errs, fmt.Errorf("%w: transposition key length %d is odd", tricipher.ErrInvalidKey, len(k.trans)))
	}
	return errors.Join(errs...)
}

// Fingerprint returns a domain-separated SHA3-256 digest of the master key.
// Every value is hashed as a full 64-bit word.
func (k *Key) Fingerprint() []byte {
	buf := make([]byte, 8*len(k.master))
	for i, v := range k.master {
		binary.LittleEndian.PutUint64(buf[8*i:], uint64(v))
	}
	return utils.HashWithDomain(DomainFingerprint, buf)
}

// ShortID is the hex encoding of the first 8 fingerprint bytes.
func (k *Key) ShortID() string {
	return hex.EncodeToString(k.Fingerprint()[:8])
}

// Equal reports whether two keys hold the same master key.
func (k *Key) Equal(other *Key) bool {
	if other == nil {
		return false
	}
	return slices.Equal(k.master, other.master)
}

// Destroy overwrites the key material. The key must not be used afterwards.
func (k *Key) Destroy() {
	utils.ZeroizeInts(k.master)
	utils.ZeroizeInts(k.trans)
	utils.ZeroizeInts(k.sub[:])
	utils.ZeroizeInts(k.inv[:])
	k.mat = tricipher.Matrix{}
}
