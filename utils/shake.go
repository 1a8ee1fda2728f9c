package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// absorbDomain writes the one-byte domain length and the domain itself.
// Panics if domain is longer than 255 bytes.
func absorbDomain(w io.Writer, domain string) {
	if len(domain) > 255 {
		panic("utils: domain string must be at most 255 bytes")
	}
	_, _ = w.Write([]byte{byte(len(domain))})
	_, _ = io.WriteString(w, domain)
}

// HashWithDomain returns SHA3-256 over the length-prefixed domain followed
// by data.
func HashWithDomain(domain string, data []byte) []byte {
	h := sha3.New256()
	absorbDomain(h, domain)
	h.Write(data)
	return h.Sum(nil)
}

// NewShakeStream returns an endless SHAKE256 stream keyed by domain and
// seed. Reads never fail.
func NewShakeStream(domain string, seed []byte) io.Reader {
	h := sha3.NewShake256()
	absorbDomain(h, domain)
	h.Write(seed)
	return h
}
