// Package tricipher implements a composite classical cipher.
// Text is passed through three independent stages driven by a single master key:
// monoalphabetic substitution, a 2x2 Hill cipher over Z_26, and a transposition.
//
// WARNING: This is a didactic construction. The key space and block size are
// tiny and there is no authentication. DO NOT use it to protect real data.
package tricipher

// Version of the tricipher Go implementation.
const Version = "1.0.0"

// API summary:
//
// Keys:
//   - key.Generate(length) - Generate a key for a message of the given length
//   - key.GenerateFromSeed(seed, length) - Deterministic key generation
//   - key.FromValues(values) - Build a key from an explicit master key
//   - key.Parse(s) - Parse a comma-separated master key
//
// Pipeline:
//   - cipher.Encode(plaintext, k) - substitute, Hill-multiply, transpose
//   - cipher.Decode(ciphertext, k) - the three stages in reverse
//   - cipher.EncodeTrace / cipher.DecodeTrace - per-stage intermediate values
//   - cipher.EncodeAll / cipher.DecodeAll - batch helpers
//
// Storage:
//   - keyring.Open(path) - local bbolt key store
