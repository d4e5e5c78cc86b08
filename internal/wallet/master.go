package wallet

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/ledger2master/pkg/types"
)

// HMACKey keys both the extended-key and the chain-code HMACs.
const HMACKey = "ed25519 seed"

// Key sizes in bytes.
const (
	ExtendedKeySize = 64
	ChainCodeSize   = 32
	MasterKeySize   = ExtendedKeySize + ChainCodeSize
)

// MaxDerivationRounds bounds the HMAC-SHA512 evaluations spent looking for
// a usable extended key. Each round passes with probability 1/2, so the
// bound is only reached on a broken hash implementation.
const MaxDerivationRounds = 1000

// Bit layout of the scalar half kL = i[0:32].
const (
	scalarLastByte = 31
	rejectBit      = 0x20 // third-highest bit of kL, must be clear
	chainCodeTag   = 0x01
)

var (
	// ErrDerivationBoundExceeded is returned when MaxDerivationRounds HMAC
	// rounds all produced a rejected digest.
	ErrDerivationBoundExceeded = errors.New("extended key derivation bound exceeded")

	// ErrInvalidMasterKey is returned when parsing a malformed master key.
	ErrInvalidMasterKey = errors.New("invalid master key")
)

// ExtendedKey is the clamped 64-byte Ed25519 extended private key kL || kR.
type ExtendedKey [ExtendedKeySize]byte

// ChainCode is the 32-byte chain code of the root key.
type ChainCode [ChainCodeSize]byte

// MasterKey is the 96-byte root key: extended private key || chain code.
type MasterKey [MasterKeySize]byte

// String redacts the key.
func (ExtendedKey) String() string { return "ExtendedKey(redacted)" }

// String redacts the chain code.
func (ChainCode) String() string { return "ChainCode(redacted)" }

// DeriveExtendedKey derives the clamped extended private key from seed.
//
// The digest i = HMAC-SHA512("ed25519 seed", seed) is rehashed with the
// same key until bit 5 of i[31] is clear, then clamped: the low three bits
// of i[0] and the top bit of i[31] are cleared and bit 6 of i[31] is set.
func DeriveExtendedKey(seed Seed) (ExtendedKey, error) {
	key, _, err := deriveExtendedKey(seed, MaxDerivationRounds)
	return key, err
}

// deriveExtendedKey also reports how many HMAC rounds were spent.
func deriveExtendedKey(seed Seed, maxRounds int) (ExtendedKey, int, error) {
	var i [ExtendedKeySize]byte
	if err := hmacSHA512(seed[:], &i); err != nil {
		return ExtendedKey{}, 1, err
	}

	rounds := 1
	for rejected(&i) {
		if rounds >= maxRounds {
			wipe(i[:])
			return ExtendedKey{}, rounds, fmt.Errorf("%w: %d rounds", ErrDerivationBoundExceeded, rounds)
		}
		if err := hmacSHA512(i[:], &i); err != nil {
			wipe(i[:])
			return ExtendedKey{}, rounds, err
		}
		rounds++
	}

	clamp(&i)
	key := ExtendedKey(i)
	wipe(i[:])
	return key, rounds, nil
}

// rejected reports whether digest i is unusable as an extended key.
func rejected(i *[ExtendedKeySize]byte) bool {
	return i[scalarLastByte]&rejectBit != 0
}

func clamp(i *[ExtendedKeySize]byte) {
	i[0] &= 0xf8
	i[scalarLastByte] &= 0x7f
	i[scalarLastByte] |= 0x40
}

// DeriveChainCode computes HMAC-SHA256("ed25519 seed", 0x01 || seed).
// It depends on the seed only.
func DeriveChainCode(seed Seed) (ChainCode, error) {
	var msg [1 + SeedSize]byte
	msg[0] = chainCodeTag
	copy(msg[1:], seed[:])
	defer wipe(msg[:])

	mac := hmac.New(sha256.New, []byte(HMACKey))
	if _, err := mac.Write(msg[:]); err != nil {
		return ChainCode{}, fmt.Errorf("%w: hmac-sha256: %v", ErrCryptoPrimitive, err)
	}
	var cc ChainCode
	sum := mac.Sum(cc[:0])
	if len(sum) != ChainCodeSize {
		return ChainCode{}, fmt.Errorf("%w: hmac-sha256 returned %d bytes", ErrCryptoPrimitive, len(sum))
	}
	return cc, nil
}

// hmacSHA512 writes HMAC-SHA512("ed25519 seed", msg) into out.
// msg may alias out.
func hmacSHA512(msg []byte, out *[ExtendedKeySize]byte) error {
	mac := hmac.New(sha512.New, []byte(HMACKey))
	if _, err := mac.Write(msg); err != nil {
		return fmt.Errorf("%w: hmac-sha512: %v", ErrCryptoPrimitive, err)
	}
	if sum := mac.Sum(out[:0]); len(sum) != ExtendedKeySize {
		return fmt.Errorf("%w: hmac-sha512 returned %d bytes", ErrCryptoPrimitive, len(sum))
	}
	return nil
}

// Assemble concatenates the extended key and the chain code.
func Assemble(key ExtendedKey, cc ChainCode) MasterKey {
	var m MasterKey
	copy(m[:ExtendedKeySize], key[:])
	copy(m[ExtendedKeySize:], cc[:])
	return m
}

// NewMasterKey derives the Icarus master key from a 64-byte seed.
func NewMasterKey(seed Seed) (*MasterKey, error) {
	m, _, err := NewMasterKeyBounded(seed, MaxDerivationRounds)
	return m, err
}

// NewMasterKeyBounded is NewMasterKey with a caller-chosen round bound.
// It also reports the HMAC-SHA512 rounds spent. maxRounds outside
// [1, MaxDerivationRounds] is treated as MaxDerivationRounds.
func NewMasterKeyBounded(seed Seed, maxRounds int) (*MasterKey, int, error) {
	if maxRounds < 1 || maxRounds > MaxDerivationRounds {
		maxRounds = MaxDerivationRounds
	}
	key, rounds, err := deriveExtendedKey(seed, maxRounds)
	if err != nil {
		return nil, rounds, fmt.Errorf("derive extended key: %w", err)
	}
	cc, err := DeriveChainCode(seed)
	if err != nil {
		wipe(key[:])
		return nil, rounds, fmt.Errorf("derive chain code: %w", err)
	}

	m := Assemble(key, cc)
	wipe(key[:])
	wipe(cc[:])
	return &m, rounds, nil
}

// MasterKeyFromMnemonic runs the whole pipeline:
// mnemonic -> seed -> {extended key, chain code} -> master key.
func MasterKeyFromMnemonic(mnemonic, passphrase string) (*MasterKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer seed.Wipe()
	return NewMasterKey(seed)
}

// ParseMasterKey decodes a 192-character hex master key and checks the
// clamping bits of its scalar half.
func ParseMasterKey(s string) (*MasterKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2*MasterKeySize {
		return nil, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidMasterKey, 2*MasterKeySize, len(s))
	}
	var m MasterKey
	if _, err := hex.Decode(m[:], []byte(s)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKey, err)
	}
	if !m.Clamped() {
		m.Wipe()
		return nil, fmt.Errorf("%w: scalar is not clamped", ErrInvalidMasterKey)
	}
	return &m, nil
}

// MasterKeyFromBech32 decodes a root_xsk bech32 string.
func MasterKeyFromBech32(s string) (*MasterKey, error) {
	hrp, data, err := types.Bech32Decode(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKey, err)
	}
	defer wipe(data)
	if hrp != types.RootXSKHRP {
		return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidMasterKey, hrp)
	}
	if len(data) != MasterKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidMasterKey, MasterKeySize, len(data))
	}
	var m MasterKey
	copy(m[:], data)
	if !m.Clamped() {
		m.Wipe()
		return nil, fmt.Errorf("%w: scalar is not clamped", ErrInvalidMasterKey)
	}
	return &m, nil
}

// ExtendedKey returns the first 64 bytes.
func (m *MasterKey) ExtendedKey() ExtendedKey {
	var k ExtendedKey
	copy(k[:], m[:ExtendedKeySize])
	return k
}

// ChainCode returns the last 32 bytes.
func (m *MasterKey) ChainCode() ChainCode {
	var cc ChainCode
	copy(cc[:], m[ExtendedKeySize:])
	return cc
}

// Clamped reports whether the scalar half carries the Ed25519 clamping bits
// and a clear reject bit.
func (m *MasterKey) Clamped() bool {
	return m[0]&0x07 == 0 &&
		m[scalarLastByte]&0x80 == 0 &&
		m[scalarLastByte]&0x40 == 0x40 &&
		m[scalarLastByte]&rejectBit == 0
}

// Hex returns the 192-character lowercase hex rendering.
func (m *MasterKey) Hex() string {
	return hex.EncodeToString(m[:])
}

// Bech32 returns the key as a root_xsk bech32 string.
func (m *MasterKey) Bech32() (string, error) {
	return types.Bech32Encode(types.RootXSKHRP, m[:])
}

// Bytes returns a copy of the key.
func (m *MasterKey) Bytes() []byte {
	b := make([]byte, MasterKeySize)
	copy(b, m[:])
	return b
}

// Equal compares two keys in constant time.
func (m *MasterKey) Equal(other *MasterKey) bool {
	if m == nil || other == nil {
		return m == other
	}
	return subtle.ConstantTimeCompare(m[:], other[:]) == 1
}

// String redacts the key so it cannot leak through %v or loggers.
func (MasterKey) String() string {
	return "MasterKey(redacted)"
}

// Wipe zeroes the key in place.
func (m *MasterKey) Wipe() {
	wipe(m[:])
}
