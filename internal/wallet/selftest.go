package wallet

import (
	"errors"
	"fmt"
	"strings"

	klog "github.com/Klingon-tech/ledger2master/internal/log"
)

// ErrSelfTest is returned when a known-answer vector does not reproduce.
var ErrSelfTest = errors.New("self-test failed")

// Vector is a known mnemonic/passphrase to master key answer.
type Vector struct {
	Name       string
	Mnemonic   string
	Passphrase string
	MasterKey  string // 192 hex characters
	Rounds     int    // HMAC-SHA512 rounds the extended key takes
	RootXVK    string // optional
}

// KnownVectors are the answers SelfTest checks.
var KnownVectors = []Vector{
	{
		Name:      "abandon x23 about",
		Mnemonic:  strings.Repeat("abandon ", 23) + "about",
		MasterKey: "48a8bed7f7f5e33e640d883ddf77df9768d91ad5cb7c68fb8fa8792f82126352ea0ed23bd0fd594340c7342229e928825970c4343b0ad191ae53fb684b9860bb1b51dc0e67e858099f64691e7e62cbf6a408d5fb907fdc7ac97344baaf175c6e",
		Rounds:    4,
		RootXVK:   "root_xvk1apdxp2qhp2ss0q2gx9ua7zxv3fkfwtadgruk4wsd6y5xmyp7jt23k5wupen7skqfnajxj8n7vt9ldfqg6haeql7u0tyhx3964ut4cmsr8w7lm",
	},
	{
		Name:      "abandon x23 art",
		Mnemonic:  strings.Repeat("abandon ", 23) + "art",
		MasterKey: "68811d250012b011938a9fe6b1dfee0c4d1621dc97f05c238cbc8dcea904f145f6cde300c069928c3134a66a819e3789eb76a234e28db03defd127ced8bcf883c5cddc85b628346a376fa318229b33e9fdd614acbd29a73ee431976ffefd122b",
		Rounds:    2,
	},
	{
		Name:      "zoo x23 vote",
		Mnemonic:  strings.Repeat("zoo ", 23) + "vote",
		MasterKey: "38b84ae96187e9eedc77b123c003367be03740096d5b33bd5a9e30d76a66175724d5db153e5efae69a6d7090f1eca632739797c3589fb2cc312c371386d20f48eaba90907c9819f3b8d19e65d5d936138b1e4301eab2ec61f1504da6e152247d",
		Rounds:    1,
	},
	{
		Name:       "abandon x23 about, passphrase TREZOR",
		Mnemonic:   strings.Repeat("abandon ", 23) + "about",
		Passphrase: "TREZOR",
		MasterKey:  "38054b1b8477cddc854d75036f94dc2d616838e61982fbbb6475796f260c78507af92caea8a169c2c5372ea993747d08617e7c2e9db972cc8b27df846ced8815f46a5efb3ca16b5234114393cdbeaf24688505bc8a193bb98d2563545dcd2896",
	},
}

// Check derives v and compares every populated field.
func (v Vector) Check() error {
	seed, err := SeedFromMnemonic(v.Mnemonic, v.Passphrase)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}
	defer seed.Wipe()

	m, rounds, err := NewMasterKeyBounded(seed, MaxDerivationRounds)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}
	defer m.Wipe()

	if got := m.Hex(); got != v.MasterKey {
		return fmt.Errorf("%w: %s: master key mismatch", ErrSelfTest, v.Name)
	}
	if v.Rounds != 0 && rounds != v.Rounds {
		return fmt.Errorf("%w: %s: %d rounds, want %d", ErrSelfTest, v.Name, rounds, v.Rounds)
	}
	if v.RootXVK != "" {
		xpub, err := m.PublicKey()
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		got, err := xpub.Bech32()
		if err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
		if got != v.RootXVK {
			return fmt.Errorf("%w: %s: root_xvk mismatch", ErrSelfTest, v.Name)
		}
	}
	return nil
}

// SelfTest checks every KnownVectors entry and the word-count guard.
// report, if non-nil, is called once per check.
func SelfTest(report func(name string, err error)) error {
	if report == nil {
		report = func(string, error) {}
	}

	var failed int
	for _, v := range KnownVectors {
		err := v.Check()
		report(v.Name, err)
		if err != nil {
			klog.Wallet.Error().Err(err).Str("vector", v.Name).Msg("Known-answer check failed")
			failed++
		}
	}

	const lengthCheck = "12-word mnemonic rejected"
	_, err := SeedFromMnemonic(strings.Repeat("abandon ", 11)+"about", "")
	if errors.Is(err, ErrInvalidMnemonicLength) {
		report(lengthCheck, nil)
	} else {
		report(lengthCheck, fmt.Errorf("%w: got %v", ErrSelfTest, err))
		failed++
	}

	klog.Wallet.Debug().Int("checks", len(KnownVectors)+1).Int("failed", failed).Msg("Self-test finished")
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d checks", ErrSelfTest, failed, len(KnownVectors)+1)
	}
	return nil
}
