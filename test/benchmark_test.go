package test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BackendStack21/tricipher-go/cipher"
	"github.com/BackendStack21/tricipher-go/key"
	"github.com/BackendStack21/tricipher-go/keyring"
)

var benchSizes = []struct {
	name string
	n    int
}{
	{"16", 16},
	{"1K", 1 << 10},
	{"64K", 64 << 10},
}

// =============================================================================
// Key generation
// =============================================================================

func BenchmarkGenerate(b *testing.B) {
	for _, sz := range benchSizes {
		b.Run(sz.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := key.Generate(sz.n); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGenerateFromSeed(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := key.GenerateFromSeed(fixedSeed, 1<<10); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Pipelines
// =============================================================================

func BenchmarkEncodeDecode(b *testing.B) {
	for _, sz := range benchSizes {
		msg := strings.Repeat("X", sz.n)
		k, err := key.Generate(sz.n)
		if err != nil {
			b.Fatal(err)
		}
		ct, err := cipher.Encode(msg, k)
		if err != nil {
			b.Fatal(err)
		}

		b.Run("Encode_"+sz.name, func(b *testing.B) {
			b.SetBytes(int64(sz.n))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Encode(msg, k); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run("Decode_"+sz.name, func(b *testing.B) {
			b.SetBytes(int64(sz.n))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := cipher.Decode(ct, k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEncodeAll(b *testing.B) {
	jobs := make([]cipher.Job, 64)
	for i := range jobs {
		k, err := key.Generate(256)
		if err != nil {
			b.Fatal(err)
		}
		jobs[i] = cipher.Job{Text: strings.Repeat("Q", 256), Key: k}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := cipher.EncodeAll(context.Background(), jobs); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Keyring
// =============================================================================

func BenchmarkKeyringPut(b *testing.B) {
	store, err := keyring.Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()

	k, err := key.Generate(64)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Put("", k); err != nil {
			b.Fatal(err)
		}
	}
}
