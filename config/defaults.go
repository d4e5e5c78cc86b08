package config

import "github.com/Klingon-tech/ledger2master/internal/wallet"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "warn",
			JSON:  false,
		},
		Output: OutputConfig{
			Format: FormatHex,
		},
		Keystore: KeystoreConfig{
			Dir: DefaultKeystoreDir(),
		},
		Derive: DeriveConfig{
			MaxRounds: wallet.MaxDerivationRounds,
		},
		Mnemonic: MnemonicConfig{
			Strict: false,
		},
	}
}
