package types

import (
	"errors"
	"fmt"
	"strings"
)

// Bech32 charset used for encoding (BIP-173).
const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// bech32ChecksumLen is the number of 5-bit checksum groups.
const bech32ChecksumLen = 6

// ErrBech32 is wrapped by every decoding and encoding failure.
var ErrBech32 = errors.New("bech32")

// bech32CharsetRev maps bech32 characters to their 5-bit values. -1 = invalid.
var bech32CharsetRev [128]int8

func init() {
	for i := range bech32CharsetRev {
		bech32CharsetRev[i] = -1
	}
	for i, c := range bech32Charset {
		bech32CharsetRev[c] = int8(i)
	}
}

// Bech32Encode encodes a human-readable part and data bytes into a bech32
// string. Cardano keys exceed the 90-character limit of BIP-173, so no
// length limit is enforced.
func Bech32Encode(hrp string, data []byte) (string, error) {
	if err := checkHRP(hrp); err != nil {
		return "", err
	}

	conv, err := convertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: convert bits: %v", ErrBech32, err)
	}
	chk := bech32Checksum(hrp, conv)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(conv) + bech32ChecksumLen)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, b := range conv {
		sb.WriteByte(bech32Charset[b])
	}
	for _, b := range chk {
		sb.WriteByte(bech32Charset[b])
	}
	return sb.String(), nil
}

// Bech32Decode decodes a bech32 string into the human-readable part and data bytes.
func Bech32Decode(s string) (string, []byte, error) {
	if len(s) == 0 {
		return "", nil, fmt.Errorf("%w: empty string", ErrBech32)
	}
	if strings.ToLower(s) != s && strings.ToUpper(s) != s {
		return "", nil, fmt.Errorf("%w: mixed case", ErrBech32)
	}
	s = strings.ToLower(s)

	// The separator is the last '1'; the HRP may itself contain '1'.
	sepIdx := strings.LastIndexByte(s, '1')
	if sepIdx < 1 {
		return "", nil, fmt.Errorf("%w: missing separator", ErrBech32)
	}
	if sepIdx+1+bech32ChecksumLen > len(s) {
		return "", nil, fmt.Errorf("%w: too short", ErrBech32)
	}

	hrp := s[:sepIdx]
	if err := checkHRP(hrp); err != nil {
		return "", nil, err
	}

	dataStr := s[sepIdx+1:]
	data5 := make([]byte, len(dataStr))
	for i := 0; i < len(dataStr); i++ {
		c := dataStr[i]
		if c > 127 || bech32CharsetRev[c] < 0 {
			return "", nil, fmt.Errorf("%w: invalid character %q", ErrBech32, c)
		}
		data5[i] = byte(bech32CharsetRev[c])
	}

	if bech32Polymod(append(bech32HRPExpand(hrp), data5...)) != 1 {
		return "", nil, fmt.Errorf("%w: invalid checksum", ErrBech32)
	}
	data5 = data5[:len(data5)-bech32ChecksumLen]

	data8, err := convertBits(data5, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: convert bits: %v", ErrBech32, err)
	}
	return hrp, data8, nil
}

func checkHRP(hrp string) error {
	if len(hrp) == 0 {
		return fmt.Errorf("%w: empty HRP", ErrBech32)
	}
	for i := 0; i < len(hrp); i++ {
		if c := hrp[i]; c < 33 || c > 126 {
			return fmt.Errorf("%w: invalid HRP character %q", ErrBech32, c)
		}
	}
	return nil
}

// bech32Polymod computes the bech32 polynomial modulus.
func bech32Polymod(values []byte) uint32 {
	gen := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

// bech32HRPExpand expands the HRP for checksum computation.
func bech32HRPExpand(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]>>5)
	}
	ret = append(ret, 0)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]&31)
	}
	return ret
}

// bech32Checksum computes the six checksum groups for hrp and data.
func bech32Checksum(hrp string, data []byte) [bech32ChecksumLen]byte {
	values := append(bech32HRPExpand(hrp), data...)
	values = append(values, make([]byte, bech32ChecksumLen)...)
	polymod := bech32Polymod(values) ^ 1
	var ret [bech32ChecksumLen]byte
	for i := range ret {
		ret[i] = byte((polymod >> uint(5*(5-i))) & 31)
	}
	return ret
}

// convertBits regroups data from fromBits-wide to toBits-wide groups.
// pad controls whether incomplete groups are zero-padded.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	acc := uint32(0)
	bits := uint(0)
	maxv := uint32((1 << toBits) - 1)
	ret := make([]byte, 0, (len(data)*int(fromBits)+int(toBits)-1)/int(toBits))

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("invalid data byte: %d", b)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	switch {
	case pad:
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
	case bits >= fromBits:
		return nil, fmt.Errorf("excess padding")
	case (acc<<(toBits-bits))&maxv != 0:
		return nil, fmt.Errorf("non-zero padding")
	}
	return ret, nil
}
