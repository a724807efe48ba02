// Package cashaddr encodes and decodes Bitcoin Cash addresses in the CashAddr format.
//
// A CashAddr string is a lowercase prefix, the separator ':', and a base32 data
// part that carries a version byte, the 20-byte hash, and a 40-bit BCH checksum
// computed over the prefix and data.
package cashaddr

import (
	"fmt"
	"strings"
)

// Type is the address type encoded in the version byte.
type Type byte

const (
	// P2PKH addresses lock to a public key hash.
	P2PKH Type = 0
	// P2SH addresses lock to a redeem script hash.
	P2SH Type = 1
)

// Well-known network prefixes.
const (
	PrefixMainnet = "bitcoincash"
	PrefixTestnet = "bchtest"
	PrefixRegtest = "bchreg"
)

// KnownPrefixes lists the prefixes tried when decoding a prefix-less address.
var KnownPrefixes = []string{PrefixMainnet, PrefixTestnet, PrefixRegtest}

// HashLen is the only payload size supported (160 bits).
const HashLen = 20

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// checksumLen is the number of 5-bit groups in the checksum.
const checksumLen = 8

var charsetRev = func() [128]int8 {
	var rev [128]int8
	for i := range rev {
		rev[i] = -1
	}
	for i, c := range charset {
		rev[c] = int8(i)
	}
	return rev
}()

// Address is a decoded CashAddr.
type Address struct {
	Prefix string
	Type   Type
	Hash   []byte
}

// String returns the full prefixed encoding.
func (a *Address) String() string {
	s, err := Encode(a.Prefix, a.Type, a.Hash)
	if err != nil {
		return ""
	}
	return s
}

// Encode returns the CashAddr for hash under prefix.
func Encode(prefix string, typ Type, hash []byte) (string, error) {
	if len(hash) != HashLen {
		return "", fmt.Errorf("%w: got %d", ErrInvalidHashLength, len(hash))
	}
	if typ != P2PKH && typ != P2SH {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedType, typ)
	}
	prefix = strings.ToLower(prefix)

	// Version byte: type in bits 3-6, size code 0 (160 bits) in bits 0-2.
	payload := make([]byte, 0, HashLen+1)
	payload = append(payload, byte(typ)<<3)
	payload = append(payload, hash...)

	data, err := convertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}

	checksum := createChecksum(prefix, data)
	combined := append(data, checksum...)

	var sb strings.Builder
	sb.Grow(len(prefix) + 1 + len(combined))
	sb.WriteString(prefix)
	sb.WriteByte(':')
	for _, d := range combined {
		sb.WriteByte(charset[d])
	}
	return sb.String(), nil
}

// Decode parses a fully prefixed CashAddr such as "bitcoincash:qp...".
func Decode(addr string) (*Address, error) {
	idx := strings.LastIndexByte(addr, ':')
	if idx <= 0 {
		return nil, fmt.Errorf("%w: missing prefix", ErrInvalidFormat)
	}
	return decodeWithPrefix(addr[:idx], addr[idx+1:])
}

// DecodeWithoutPrefix parses an address given without its prefix, trying each
// of prefixes in order and returning the first that verifies.
func DecodeWithoutPrefix(addr string, prefixes []string) (*Address, error) {
	if strings.ContainsRune(addr, ':') {
		return nil, fmt.Errorf("%w: unexpected prefix", ErrInvalidFormat)
	}
	var lastErr error
	for _, p := range prefixes {
		a, err := decodeWithPrefix(p, addr)
		if err == nil {
			return a, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return nil, ErrUnknownPrefix
	}
	return nil, fmt.Errorf("%w: %w", ErrUnknownPrefix, lastErr)
}

// DecodeAny accepts either form: a prefixed address, or a prefix-less one
// resolved against KnownPrefixes.
func DecodeAny(addr string) (*Address, error) {
	if strings.ContainsRune(addr, ':') {
		return Decode(addr)
	}
	return DecodeWithoutPrefix(addr, KnownPrefixes)
}

func decodeWithPrefix(prefix, body string) (*Address, error) {
	if prefix == "" || len(body) <= checksumLen {
		return nil, fmt.Errorf("%w: too short", ErrInvalidFormat)
	}
	lowerBody := strings.ToLower(body)
	if lowerBody != body && strings.ToUpper(body) != body {
		return nil, fmt.Errorf("%w: mixed case", ErrInvalidFormat)
	}
	prefix = strings.ToLower(prefix)

	data := make([]byte, len(lowerBody))
	for i := 0; i < len(lowerBody); i++ {
		c := lowerBody[i]
		if c >= 128 || charsetRev[c] == -1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
		}
		data[i] = byte(charsetRev[c])
	}

	if !verifyChecksum(prefix, data) {
		return nil, ErrInvalidChecksum
	}

	payload, err := convertBits(data[:len(data)-checksumLen], 5, 8, false)
	if err != nil {
		return nil, err
	}
	if len(payload) != HashLen+1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHashLength, len(payload)-1)
	}

	version := payload[0]
	if version&0x07 != 0 {
		return nil, fmt.Errorf("%w: size code %d", ErrUnsupportedType, version&0x07)
	}
	typ := Type(version >> 3)
	if typ != P2PKH && typ != P2SH {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, typ)
	}

	hash := make([]byte, HashLen)
	copy(hash, payload[1:])
	return &Address{Prefix: prefix, Type: typ, Hash: hash}, nil
}

// polyMod is the BCH code checksum generator over GF(2^5).
func polyMod(values []byte) uint64 {
	c := uint64(1)
	for _, d := range values {
		c0 := byte(c >> 35)
		c = ((c & 0x07ffffffff) << 5) ^ uint64(d)
		if c0&0x01 != 0 {
			c ^= 0x98f2bc8e61
		}
		if c0&0x02 != 0 {
			c ^= 0x79b76d99e2
		}
		if c0&0x04 != 0 {
			c ^= 0xf33e5fb3c4
		}
		if c0&0x08 != 0 {
			c ^= 0xae2eabe2a8
		}
		if c0&0x10 != 0 {
			c ^= 0x1e4f43e470
		}
	}
	return c ^ 1
}

// prefixData maps each prefix character to its low 5 bits, followed by a zero separator.
func prefixData(prefix string) []byte {
	out := make([]byte, 0, len(prefix)+1)
	for i := 0; i < len(prefix); i++ {
		out = append(out, prefix[i]&0x1f)
	}
	return append(out, 0)
}

func createChecksum(prefix string, data []byte) []byte {
	values := append(prefixData(prefix), data...)
	values = append(values, make([]byte, checksumLen)...)
	mod := polyMod(values)

	out := make([]byte, checksumLen)
	for i := 0; i < checksumLen; i++ {
		out[i] = byte((mod >> uint(5*(7-i))) & 0x1f)
	}
	return out
}

func verifyChecksum(prefix string, data []byte) bool {
	return polyMod(append(prefixData(prefix), data...)) == 0
}

// convertBits regroups a byte slice from fromBits-wide to toBits-wide groups.
func convertBits(data []byte, fromBits, toBits uint, pad bool) ([]byte, error) {
	var acc uint32
	var bits uint
	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for _, v := range data {
		if uint32(v)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: value out of range", ErrInvalidFormat)
		}
		acc = acc<<fromBits | uint32(v)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrInvalidFormat)
	}
	return out, nil
}
