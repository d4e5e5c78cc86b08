package wallet

import (
	"crypto/sha512"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Seed derivation parameters (BIP-39).
const (
	// SeedSize is the length of a derived seed in bytes (512 bits).
	SeedSize = 64

	seedSaltPrefix = "mnemonic"
	seedIterations = 2048
)

var (
	// ErrInvalidMnemonicLength is returned when a sentence is not exactly
	// MnemonicWordCount words long.
	ErrInvalidMnemonicLength = errors.New("mnemonic must have 24 words")

	// ErrCryptoPrimitive wraps a failure inside HMAC or PBKDF2.
	ErrCryptoPrimitive = errors.New("crypto primitive failure")
)

// Seed is the 512-bit PBKDF2 output a master key is derived from.
type Seed [SeedSize]byte

// String redacts the seed.
func (Seed) String() string {
	return "Seed(redacted)"
}

// Wipe zeroes the seed in place.
func (s *Seed) Wipe() {
	wipe(s[:])
}

// SeedFromMnemonic derives a 512-bit seed from a 24-word mnemonic and an
// optional passphrase using PBKDF2-HMAC-SHA512 as specified in BIP-39.
// The word count is checked before any hashing; wordlist membership and
// checksum are not.
func SeedFromMnemonic(mnemonic, passphrase string) (Seed, error) {
	var seed Seed

	words := MnemonicWords(mnemonic)
	if len(words) != MnemonicWordCount {
		return seed, fmt.Errorf("%w, got %d", ErrInvalidMnemonicLength, len(words))
	}

	password := []byte(NormalizeMnemonic(mnemonic))
	defer wipe(password)

	out := pbkdf2.Key(password, []byte(seedSaltPrefix+passphrase), seedIterations, SeedSize, sha512.New)
	defer wipe(out)
	if len(out) != SeedSize {
		return seed, fmt.Errorf("%w: pbkdf2 returned %d bytes", ErrCryptoPrimitive, len(out))
	}
	copy(seed[:], out)
	return seed, nil
}

// wipe zeroes b. The compiler may still leave copies elsewhere.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
