// Package crypto provides hashing helpers for ledger2master.
package crypto

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSize is the length of a BLAKE3-256 digest.
const HashSize = 32

// FingerprintSize is the number of digest bytes kept in a fingerprint.
const FingerprintSize = 8

// fingerprintContext domain-separates fingerprints from plain hashes.
const fingerprintContext = "ledger2master 2024-06 root key fingerprint"

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// Fingerprint returns a short hex identifier for public key material.
// Callers must never pass secrets.
func Fingerprint(public []byte) string {
	var out [HashSize]byte
	blake3.DeriveKey(fingerprintContext, public, out[:])
	return hex.EncodeToString(out[:FingerprintSize])
}
