// Package types defines the encodings shared by ledger2master packages.
package types

// Bech32 human-readable prefixes used by cardano-address for root keys.
const (
	// RootXSKHRP prefixes a 96-byte root extended signing key.
	RootXSKHRP = "root_xsk"

	// RootXVKHRP prefixes a 64-byte root extended verification key.
	RootXVKHRP = "root_xvk"
)
