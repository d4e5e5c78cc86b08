// derive_xvk.go prints the root public key and fingerprint for a master key file.
// The file holds the 192-character hex key or a root_xsk bech32 string.
// Usage: go run scripts/derive_xvk.go <keyfile>
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/ledger2master/internal/wallet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: derive_xvk <keyfile>")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	s := strings.TrimSpace(string(data))

	var m *wallet.MasterKey
	if strings.HasPrefix(s, "root_xsk1") {
		m, err = wallet.MasterKeyFromBech32(s)
	} else {
		m, err = wallet.ParseMasterKey(s)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer m.Wipe()

	xpub, err := m.PublicKey()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	xvk, err := xpub.Bech32()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("xpub=%s\n", xpub)
	fmt.Printf("root_xvk=%s\n", xvk)
	fmt.Printf("fingerprint=%s\n", xpub.Fingerprint())
}
