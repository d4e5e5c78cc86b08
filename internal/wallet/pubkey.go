package wallet

import (
	"encoding/hex"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/Klingon-tech/ledger2master/pkg/crypto"
	"github.com/Klingon-tech/ledger2master/pkg/types"
)

// PublicKeySize is the length of an encoded Ed25519 point.
const PublicKeySize = 32

// XPubSize is the length of an extended public key (point || chain code).
const XPubSize = PublicKeySize + ChainCodeSize

// XPub is the root extended public key A || chain code, where A = kL*B.
// It carries no secret material and may be shared with watch-only wallets.
type XPub [XPubSize]byte

// PublicKey computes the root extended public key.
//
// kL is used as-is (it is not hashed the way RFC 8032 seeds are); its
// reduction mod l does not change the resulting point.
func (m *MasterKey) PublicKey() (XPub, error) {
	var wide [64]byte
	copy(wide[:32], m[:32])
	defer wipe(wide[:])

	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return XPub{}, fmt.Errorf("%w: load scalar: %v", ErrCryptoPrimitive, err)
	}
	point := new(edwards25519.Point).ScalarBaseMult(s)

	var xpub XPub
	copy(xpub[:PublicKeySize], point.Bytes())
	copy(xpub[PublicKeySize:], m[ExtendedKeySize:])
	return xpub, nil
}

// Key returns the encoded Ed25519 point.
func (x XPub) Key() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, x[:PublicKeySize])
	return b
}

// String returns the hex encoding.
func (x XPub) String() string {
	return hex.EncodeToString(x[:])
}

// Bech32 returns the key as a root_xvk bech32 string.
func (x XPub) Bech32() (string, error) {
	return types.Bech32Encode(types.RootXVKHRP, x[:])
}

// Fingerprint identifies the root key without revealing it.
func (x XPub) Fingerprint() string {
	return crypto.Fingerprint(x[:])
}

// ParseXPub decodes a root_xvk bech32 string or 128 hex characters.
func ParseXPub(s string) (XPub, error) {
	var x XPub
	if b, err := hex.DecodeString(s); err == nil {
		if len(b) != XPubSize {
			return x, fmt.Errorf("xpub must be %d bytes, got %d", XPubSize, len(b))
		}
		copy(x[:], b)
		return x, nil
	}
	hrp, data, err := types.Bech32Decode(s)
	if err != nil {
		return x, fmt.Errorf("parse xpub: %w", err)
	}
	if hrp != types.RootXVKHRP {
		return x, fmt.Errorf("parse xpub: unexpected prefix %q", hrp)
	}
	if len(data) != XPubSize {
		return x, fmt.Errorf("xpub must be %d bytes, got %d", XPubSize, len(data))
	}
	copy(x[:], data)
	return x, nil
}
