// Package config handles ledger2master configuration.
//
// Values are resolved in order: built-in defaults, the .conf file,
// LEDGER2MASTER_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// OutputFormat selects how derived keys are printed.
type OutputFormat string

const (
	FormatHex    OutputFormat = "hex"
	FormatBech32 OutputFormat = "bech32"
	FormatJSON   OutputFormat = "json"
)

// Config holds CLI runtime configuration.
type Config struct {
	Log      LogConfig
	Output   OutputConfig
	Keystore KeystoreConfig
	Derive   DeriveConfig
	Mnemonic MnemonicConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Format OutputFormat `conf:"output.format"`
}

// KeystoreConfig holds keystore settings.
type KeystoreConfig struct {
	Dir string `conf:"keystore.dir"`
}

// DeriveConfig holds derivation settings.
type DeriveConfig struct {
	// MaxRounds caps HMAC-SHA512 rounds spent on one extended key.
	MaxRounds int `conf:"derive.maxrounds"`
}

// MnemonicConfig holds mnemonic input settings.
type MnemonicConfig struct {
	// Strict rejects sentences that fail the BIP-39 checksum instead of
	// warning about them.
	Strict bool `conf:"mnemonic.strict"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.ledger2master
//	macOS:   ~/Library/Application Support/Ledger2Master
//	Windows: %APPDATA%\Ledger2Master
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ledger2master"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Ledger2Master")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Ledger2Master")
		}
		return filepath.Join(home, "AppData", "Roaming", "Ledger2Master")
	default:
		return filepath.Join(home, ".ledger2master")
	}
}

// DefaultConfigFile returns the config file read when none is given.
func DefaultConfigFile() string {
	return filepath.Join(DefaultDataDir(), "ledger2master.conf")
}

// DefaultKeystoreDir returns the default keystore directory.
func DefaultKeystoreDir() string {
	return filepath.Join(DefaultDataDir(), "keystore")
}
