// Package wallet derives Cardano Icarus/Ledger master keys from BIP-39
// mnemonics and keeps them in an encrypted keystore.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	// MnemonicWordCount is the number of words a Ledger recovery sentence has.
	MnemonicWordCount = 24

	// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
	MnemonicEntropyBits = 256
)

// ErrInvalidMnemonic is returned when a sentence fails the BIP-39 wordlist
// or checksum test.
var ErrInvalidMnemonic = errors.New("invalid BIP-39 mnemonic")

// MnemonicSource is the BIP-39 capability the derivation relies on.
// The derivation itself never needs the wordlist.
type MnemonicSource interface {
	Validate(mnemonic string) bool
	EntropyToMnemonic(entropy []byte) (string, error)
}

// BIP39 is the English-wordlist MnemonicSource.
type BIP39 struct{}

// Validate reports whether mnemonic has valid words and checksum.
func (BIP39) Validate(mnemonic string) bool {
	return ValidateMnemonic(mnemonic)
}

// EntropyToMnemonic encodes entropy as a mnemonic sentence.
func (BIP39) EntropyToMnemonic(entropy []byte) (string, error) {
	return MnemonicFromEntropy(entropy)
}

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	defer wipe(entropy)
	return MnemonicFromEntropy(entropy)
}

// MnemonicFromEntropy encodes 128..256 bits of entropy as a mnemonic.
func MnemonicFromEntropy(entropy []byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// EntropyFromMnemonic decodes a valid mnemonic back to its entropy bytes.
func EntropyFromMnemonic(mnemonic string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(NormalizeMnemonic(mnemonic))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return entropy, nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// MnemonicWords splits a sentence on any run of whitespace.
func MnemonicWords(mnemonic string) []string {
	return strings.Fields(mnemonic)
}

// NormalizeMnemonic joins the words of mnemonic with single spaces.
// Letter case is left alone.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(MnemonicWords(mnemonic), " ")
}
