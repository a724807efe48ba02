// Package coerce turns free-form argument text into values typed for a
// contract parameter.
package coerce

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/bitfsorg/cashbench/cashaddr"
	"github.com/bitfsorg/cashbench/contract"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/wallet"
)

var (
	// ErrInvalidArgument indicates text that cannot be read as its declared type.
	ErrInvalidArgument = errors.New("coerce: invalid argument")

	// ErrArgumentCount indicates the number of values does not match the parameters.
	ErrArgumentCount = errors.New("coerce: wrong number of arguments")
)

// Argument is one coerced value.
//
// Value holds, by type tag:
//
//	int                   *big.Int (nil when Unset)
//	bool                  bool
//	sig                   *tx.SignatureTemplate
//	bytes20, pubkey,
//	bytes, bytesN         []byte
//	anything else         the raw string
//
// Malformed arguments keep the raw string in Value and must not be used to
// build a transaction.
type Argument struct {
	Type      string
	Value     any
	Raw       string
	Unset     bool
	Malformed bool
}

// Usable reports whether the argument can go into a transaction.
func (a Argument) Usable() bool {
	return !a.Unset && !a.Malformed
}

// Coerce reads raw as a value of type typeTag.
//
// An int field holding only "-" (or nothing) is Unset rather than an error so
// partially typed input is tolerated. Text that fails to decode as a sig,
// address or hex value is returned Malformed instead of failing.
func Coerce(raw, typeTag string) (Argument, error) {
	arg := Argument{Type: typeTag, Raw: raw}
	switch {
	case typeTag == "int":
		text := strings.TrimSpace(raw)
		if text == "-" || text == "" {
			arg.Unset = true
			return arg, nil
		}
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return Argument{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, raw)
		}
		arg.Value = n

	case typeTag == "bool":
		arg.Value = raw == "true"

	case typeTag == "sig":
		tmpl, err := templateFromText(raw)
		if err != nil {
			arg.Value, arg.Malformed = raw, true
			return arg, nil
		}
		arg.Value = tmpl

	case typeTag == "bytes20":
		addr, err := cashaddr.DecodeAny(strings.TrimSpace(raw))
		if err != nil {
			arg.Value, arg.Malformed = raw, true
			return arg, nil
		}
		arg.Value = addr.Hash

	case typeTag == "pubkey" || strings.HasPrefix(typeTag, "bytes"):
		b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
		if err != nil {
			arg.Value, arg.Malformed = raw, true
			return arg, nil
		}
		arg.Value = b

	default:
		arg.Value = raw
	}
	return arg, nil
}

// CoerceSignature binds a sig argument to id's key.
func CoerceSignature(id *wallet.KeyIdentity) (Argument, error) {
	if id == nil {
		return Argument{}, fmt.Errorf("%w: no key identity for sig", ErrInvalidArgument)
	}
	tmpl, err := id.SignatureTemplate()
	if err != nil {
		return Argument{}, fmt.Errorf("%w: %s: %w", ErrInvalidArgument, id.Label, err)
	}
	return Argument{Type: "sig", Value: tmpl, Raw: id.Label}, nil
}

// CoerceAll coerces one raw value per parameter, in order.
func CoerceAll(raws []string, params []contract.Param) ([]Argument, error) {
	if len(raws) != len(params) {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, len(params), len(raws))
	}
	out := make([]Argument, len(params))
	for i, p := range params {
		arg, err := Coerce(raws[i], p.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name, err)
		}
		out[i] = arg
	}
	return out, nil
}

// templateFromText accepts a WIF or a 64-char hex private key.
func templateFromText(raw string) (*tx.SignatureTemplate, error) {
	text := strings.TrimSpace(raw)
	if len(text) == 64 {
		if _, err := hex.DecodeString(text); err == nil {
			return tx.SignatureTemplateFromHex(text)
		}
	}
	return tx.SignatureTemplateFromWIF(text)
}
