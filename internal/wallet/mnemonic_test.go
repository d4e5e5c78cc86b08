package wallet

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const (
	// "abandon" x23 + "about": all-zero entropy words with a wrong checksum.
	mnemonicAbout24 = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	// "abandon" x23 + "art": the valid all-zero entropy 24-word mnemonic.
	mnemonicArt24 = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon art"
	// "abandon" x11 + "about": the valid all-zero entropy 12-word mnemonic.
	mnemonicAbout12 = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
)

func TestGenerateMnemonic(t *testing.T) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}

	words := strings.Fields(mnemonic)
	if len(words) != MnemonicWordCount {
		t.Errorf("word count = %d, want %d", len(words), MnemonicWordCount)
	}
	if !ValidateMnemonic(mnemonic) {
		t.Error("generated mnemonic should validate")
	}
}

func TestGenerateMnemonic_Unique(t *testing.T) {
	m1, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	m2, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}

	if m1 == m2 {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 24-word BIP-39", mnemonicArt24, true},
		{"valid 12-word BIP-39", mnemonicAbout12, true},
		{"extra whitespace", "  " + strings.ReplaceAll(mnemonicArt24, " ", "\t ") + "\n", true},
		{"wrong checksum", mnemonicAbout24, false},
		{"empty string", "", false},
		{"random words", "not a valid mnemonic phrase at all", false},
		{"single word", "abandon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestMnemonicFromEntropy_ZeroEntropy(t *testing.T) {
	got, err := MnemonicFromEntropy(make([]byte, 32))
	if err != nil {
		t.Fatalf("MnemonicFromEntropy() error: %v", err)
	}
	if got != mnemonicArt24 {
		t.Errorf("MnemonicFromEntropy(zero) = %q, want %q", got, mnemonicArt24)
	}
}

func TestMnemonicFromEntropy_BadLength(t *testing.T) {
	if _, err := MnemonicFromEntropy(make([]byte, 7)); err == nil {
		t.Error("expected error for 56-bit entropy")
	}
}

func TestEntropyFromMnemonic_Roundtrip(t *testing.T) {
	entropy := bytes.Repeat([]byte{0x7f}, 32)
	mnemonic, err := MnemonicFromEntropy(entropy)
	if err != nil {
		t.Fatalf("MnemonicFromEntropy() error: %v", err)
	}

	got, err := EntropyFromMnemonic(mnemonic)
	if err != nil {
		t.Fatalf("EntropyFromMnemonic() error: %v", err)
	}
	if !bytes.Equal(got, entropy) {
		t.Errorf("entropy = %x, want %x", got, entropy)
	}
}

func TestEntropyFromMnemonic_BadChecksum(t *testing.T) {
	_, err := EntropyFromMnemonic(mnemonicAbout24)
	if !errors.Is(err, ErrInvalidMnemonic) {
		t.Errorf("expected ErrInvalidMnemonic, got %v", err)
	}
}

func TestBIP39_ImplementsMnemonicSource(t *testing.T) {
	var src MnemonicSource = BIP39{}

	if !src.Validate(mnemonicArt24) {
		t.Error("Validate() should accept a valid mnemonic")
	}
	if src.Validate(mnemonicAbout24) {
		t.Error("Validate() should reject a bad checksum")
	}

	m, err := src.EntropyToMnemonic(make([]byte, 32))
	if err != nil {
		t.Fatalf("EntropyToMnemonic() error: %v", err)
	}
	if m != mnemonicArt24 {
		t.Errorf("EntropyToMnemonic() = %q, want %q", m, mnemonicArt24)
	}
}

func TestNormalizeMnemonic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b c", "a b c"},
		{"  a\tb\n\nc  ", "a b c"},
		{"", ""},
		{"Abandon ABOUT", "Abandon ABOUT"},
	}

	for _, tt := range tests {
		if got := NormalizeMnemonic(tt.in); got != tt.want {
			t.Errorf("NormalizeMnemonic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
