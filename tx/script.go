package tx

import (
	"encoding/binary"
	"fmt"
	"math/big"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/cashbench/cashaddr"
)

// op1Negate is OP_1NEGATE.
const op1Negate = 0x4f

// Hash160 returns RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	return bsvhash.Hash160(data)
}

// BuildP2PKHScript creates a P2PKH locking script for a 20-byte public key hash.
func BuildP2PKHScript(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != cashaddr.HashLen {
		return nil, fmt.Errorf("%w: public key hash length %d", ErrScriptBuild, len(pubKeyHash))
	}
	addr, err := script.NewAddressFromPublicKeyHash(pubKeyHash, true)
	if err != nil {
		return nil, fmt.Errorf("%w: address from hash: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock script: %w", ErrScriptBuild, err)
	}
	return []byte(*lockScript), nil
}

// BuildP2SHScript creates the OP_HASH160 <hash> OP_EQUAL locking script for a
// 20-byte script hash.
func BuildP2SHScript(scriptHash []byte) ([]byte, error) {
	if len(scriptHash) != cashaddr.HashLen {
		return nil, fmt.Errorf("%w: script hash length %d", ErrScriptBuild, len(scriptHash))
	}
	s := make([]byte, 0, 23)
	s = append(s, script.OpHASH160, byte(len(scriptHash)))
	s = append(s, scriptHash...)
	s = append(s, script.OpEQUAL)
	return s, nil
}

// LockingScriptForAddress decodes a CashAddr (prefixed or not) and returns the
// matching P2PKH or P2SH locking script.
func LockingScriptForAddress(address string) ([]byte, error) {
	addr, err := cashaddr.DecodeAny(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidAddress, address, err)
	}
	switch addr.Type {
	case cashaddr.P2PKH:
		return BuildP2PKHScript(addr.Hash)
	case cashaddr.P2SH:
		return BuildP2SHScript(addr.Hash)
	default:
		return nil, fmt.Errorf("%w: %q: unsupported type %d", ErrInvalidAddress, address, addr.Type)
	}
}

// PushData returns the minimal push of data: OP_0 for empty data, OP_1..OP_16
// and OP_1NEGATE for the single bytes they represent, a direct push up to 75
// bytes, then OP_PUSHDATA1/2/4.
func PushData(data []byte) []byte {
	n := len(data)
	switch {
	case n == 0:
		return []byte{script.Op0}
	case n == 1 && data[0] >= 1 && data[0] <= 16:
		return []byte{script.Op1 + data[0] - 1}
	case n == 1 && data[0] == 0x81:
		return []byte{op1Negate}
	case n <= 75:
		return append([]byte{byte(n)}, data...)
	case n <= 0xff:
		return append([]byte{script.OpPUSHDATA1, byte(n)}, data...)
	case n <= 0xffff:
		out := []byte{script.OpPUSHDATA2, 0, 0}
		binary.LittleEndian.PutUint16(out[1:], uint16(n))
		return append(out, data...)
	default:
		out := []byte{script.OpPUSHDATA4, 0, 0, 0, 0}
		binary.LittleEndian.PutUint32(out[1:], uint32(n))
		return append(out, data...)
	}
}

// EncodeScriptNum encodes n as a minimally-encoded script number
// (little-endian magnitude, sign bit in the most significant byte).
func EncodeScriptNum(n *big.Int) []byte {
	if n == nil || n.Sign() == 0 {
		return []byte{}
	}
	mag := new(big.Int).Abs(n).Bytes() // big-endian
	out := make([]byte, len(mag))
	for i, b := range mag {
		out[len(mag)-1-i] = b
	}
	if out[len(out)-1]&0x80 != 0 {
		if n.Sign() < 0 {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if n.Sign() < 0 {
		out[len(out)-1] |= 0x80
	}
	return out
}

// EncodeBool encodes a boolean the way the script interpreter reads it.
func EncodeBool(b bool) []byte {
	if b {
		return []byte{0x01}
	}
	return []byte{}
}
