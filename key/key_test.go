package key

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/core"
	"github.com/BackendStack21/tricipher-go/stages/hill"
	"github.com/BackendStack21/tricipher-go/stages/transposition"
	"github.com/BackendStack21/tricipher-go/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = byte(i*37) ^ b
	}
	return seed
}

// identityValues builds a master key with identity substitution, identity
// matrix and identity transposition of length n.
func identityValues(n int) []int {
	values := make([]int, 0, tricipher.HeaderSize+n)
	for i := 1; i <= 26; i++ {
		values = append(values, i)
	}
	values = append(values, 1, 0, 0, 1)
	for i := 0; i < n; i++ {
		values = append(values, i)
	}
	return values
}

func TestFromValuesTooShort(t *testing.T) {
	values := make([]int, 29)
	for i := range values {
		values[i] = i + 1
	}
	_, err := FromValues(values)
	assert.True(t, errors.Is(err, tricipher.ErrInvalidKeyLength))

	_, err = FromValues(nil)
	assert.True(t, errors.Is(err, tricipher.ErrInvalidKeyLength))
}

func TestFromValuesTooLong(t *testing.T) {
	_, err := FromValues(make([]int, utils.MaxKeyLength+1))
	assert.True(t, errors.Is(err, utils.ErrExceedsLimit))
}

func TestFromValuesSlicesRegions(t *testing.T) {
	values := identityValues(4)
	values[0] = 5
	values[26], values[27], values[28], values[29] = 3, 3, 2, 5

	k, err := FromValues(values)
	require.NoError(t, err)

	assert.Equal(t, 5, k.Substitution()[0])
	assert.Equal(t, tricipher.Matrix{A: 3, B: 3, C: 2, D: 5}, k.Matrix())
	assert.Equal(t, []int{0, 1, 2, 3}, k.Transposition())
	assert.Equal(t, 34, k.Len())
	assert.Equal(t, 4, k.MessageCapacity())
	assert.Equal(t, values, k.MasterKey())
}

func TestFromValuesHeaderOnly(t *testing.T) {
	k, err := FromValues(identityValues(0))
	require.NoError(t, err)
	assert.Empty(t, k.Transposition())
	assert.Equal(t, 0, k.MessageCapacity())
}

func TestDefensiveCopies(t *testing.T) {
	values := identityValues(2)
	k, err := FromValues(values)
	require.NoError(t, err)

	values[0] = 99
	assert.Equal(t, 1, k.Substitution()[0], "constructor must copy its input")

	mk := k.MasterKey()
	mk[0] = 99
	tk := k.Transposition()
	tk[0] = 99
	sub := k.Substitution()
	sub[0] = 99

	assert.Equal(t, 1, k.MasterKey()[0])
	assert.Equal(t, 0, k.Transposition()[0])
	assert.Equal(t, 1, k.Substitution()[0])
}

func TestGenerateProperties(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5, 11, 64} {
		k, err := Generate(n)
		require.NoError(t, err)

		padded := n + n%2
		assert.Equal(t, 30+padded, k.Len(), "length %d", n)
		assert.Equal(t, padded, k.MessageCapacity())

		// Substitution bijectivity.
		sub := k.Substitution()
		inv := k.InverseSubstitution()
		for d := 1; d <= 26; d++ {
			assert.Equal(t, d, inv[sub[d-1]])
		}

		// Matrix invertibility and entry range.
		mat := k.Matrix()
		assert.True(t, hill.IsInvertible(mat))
		for _, v := range hill.Values(mat) {
			assert.True(t, v >= 1 && v <= 26)
		}

		// Transposition permutation property.
		assert.True(t, transposition.IsPermutation(k.Transposition()))
		assert.Len(t, k.Transposition(), padded)

		assert.NoError(t, k.Validate())
	}
}

func TestGenerateRejectsBadLength(t *testing.T) {
	_, err := Generate(-1)
	assert.True(t, errors.Is(err, utils.ErrInvalidLength))

	_, err = Generate(utils.MaxMessageLength + 1)
	assert.True(t, errors.Is(err, utils.ErrExceedsLimit))
}

func TestGenerateWithReaderErrors(t *testing.T) {
	_, err := GenerateWithReader(bytes.NewReader(nil), 4, core.DefaultParams)
	assert.Error(t, err)

	bad := core.DefaultParams
	bad.MaxMatrixAttempts = 0
	_, err = GenerateWithReader(utils.RandReader, 4, bad)
	assert.Error(t, err)
}

func TestGenerateFromSeed(t *testing.T) {
	a, err := GenerateFromSeed(testSeed(1), 10)
	require.NoError(t, err)
	b, err := GenerateFromSeed(testSeed(1), 10)
	require.NoError(t, err)
	c, err := GenerateFromSeed(testSeed(2), 10)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.NoError(t, a.Validate())

	_, err = GenerateFromSeed(make([]byte, 32), 10)
	assert.Error(t, err, "low-entropy seed should be rejected")
}

func TestParseRoundTrip(t *testing.T) {
	k, err := Generate(9)
	require.NoError(t, err)

	s := k.String()
	assert.NotContains(t, s, "[")
	assert.Equal(t, k.Len()-1, strings.Count(s, ","))

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, k.MasterKey(), parsed.MasterKey())
}

func TestParseTrimsWhitespace(t *testing.T) {
	values := identityValues(2)
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = " " + strconv.Itoa(v) + "\t"
	}
	k, err := Parse(strings.Join(parts, ","))
	require.NoError(t, err)
	assert.Equal(t, values, k.MasterKey())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", tricipher.ErrInvalidKeyFormat},
		{"non numeric", "1,2,x,4", tricipher.ErrInvalidKeyFormat},
		{"brackets", "[1,2,3]", tricipher.ErrInvalidKeyFormat},
		{"trailing comma", "1,2,3,", tricipher.ErrInvalidKeyFormat},
		{"too short", "1,2,3", tricipher.ErrInvalidKeyLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v []int)
	}{
		{"duplicate substitution", func(v []int) { v[1] = v[0] }},
		{"substitution out of range", func(v []int) { v[0] = 27 }},
		{"singular matrix", func(v []int) { v[26], v[27], v[28], v[29] = 2, 4, 1, 2 }},
		{"duplicate transposition", func(v []int) { v[31] = v[30] }},
		{"transposition out of range", func(v []int) { v[30] = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := identityValues(4)
			tt.mutate(values)
			k, err := FromValues(values)
			require.NoError(t, err, "FromValues must not validate structure")
			assert.True(t, errors.Is(k.Validate(), tricipher.ErrInvalidKey))
		})
	}

	odd, err := FromValues(identityValues(3))
	require.NoError(t, err)
	assert.True(t, errors.Is(odd.Validate(), tricipher.ErrInvalidKey))

	ok, err := FromValues(identityValues(4))
	require.NoError(t, err)
	assert.NoError(t, ok.Validate())
}

func TestFingerprint(t *testing.T) {
	a, err := FromValues(identityValues(2))
	require.NoError(t, err)
	b, err := FromValues(identityValues(2))
	require.NoError(t, err)
	c, err := FromValues(identityValues(4))
	require.NoError(t, err)

	assert.Len(t, a.Fingerprint(), 32)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.ShortID(), 16)
}

func TestFingerprintUsesFullValues(t *testing.T) {
	vals := identityValues(2)
	a, err := FromValues(vals)
	require.NoError(t, err)

	shift := 32
	vals[0] += 1 << shift
	b, err := FromValues(vals)
	require.NoError(t, err)

	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.ShortID(), b.ShortID())
}

func TestDomainSeparation(t *testing.T) {
	assert.NotEqual(t, DomainGenerate, DomainFingerprint)

	seed := testSeed(7)
	want, err := GenerateFromSeed(seed, 6)
	require.NoError(t, err)
	got, err := GenerateWithReader(utils.NewShakeStream(DomainGenerate, seed), 6, core.DefaultParams)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	other, err := GenerateWithReader(utils.NewShakeStream(DomainFingerprint, seed), 6, core.DefaultParams)
	require.NoError(t, err)
	assert.False(t, want.Equal(other))
}

func TestEqual(t *testing.T) {
	a, _ := FromValues(identityValues(2))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(a))
}

func TestInverseSubstitutionConcurrent(t *testing.T) {
	k, err := Generate(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]tricipher.InverseTable, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = k.InverseSubstitution()
		}(i)
	}
	wg.Wait()
	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
}

func TestDestroy(t *testing.T) {
	k, err := Generate(4)
	require.NoError(t, err)
	k.Destroy()

	for _, v := range k.MasterKey() {
		assert.Zero(t, v)
	}
	assert.Equal(t, tricipher.Matrix{}, k.Matrix())
}
