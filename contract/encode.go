package contract

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/bitfsorg/cashbench/tx"
)

// pubKeyLen is the length of a compressed public key.
const pubKeyLen = 33

// EncodeArgument encodes v as the script bytes for a parameter of type typ.
//
// Accepted Go values per type:
//
//	int           *big.Int, int, int64, uint64
//	bool          bool
//	string        string
//	bytes, bytesN []byte (bytesN must have exactly N bytes)
//	pubkey        []byte, 33 bytes
//	sig, datasig  []byte
//
// A *tx.SignatureTemplate is not accepted here; function calls sign those
// once the transaction is final.
func EncodeArgument(typ string, v any) ([]byte, error) {
	switch typ {
	case "int":
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return tx.EncodeScriptNum(n), nil
	case "bool":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants bool, got %T", ErrArgumentType, typ, v)
		}
		return tx.EncodeBool(b), nil
	case "string":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants string, got %T", ErrArgumentType, typ, v)
		}
		return []byte(s), nil
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s wants []byte, got %T", ErrArgumentType, typ, v)
	}
	switch {
	case typ == "pubkey":
		if len(b) != pubKeyLen {
			return nil, fmt.Errorf("%w: pubkey is %d bytes", ErrArgumentType, len(b))
		}
	case strings.HasPrefix(typ, "bytes") && typ != "bytes":
		n, err := strconv.Atoi(strings.TrimPrefix(typ, "bytes"))
		if err != nil {
			return nil, fmt.Errorf("%w: unknown type %s", ErrArgumentType, typ)
		}
		if len(b) != n {
			return nil, fmt.Errorf("%w: %s given %d bytes", ErrArgumentType, typ, len(b))
		}
	case typ == "bytes", typ == "sig", typ == "datasig":
	default:
		return nil, fmt.Errorf("%w: unknown type %s", ErrArgumentType, typ)
	}
	return b, nil
}

func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("%w: nil int", ErrArgumentType)
		}
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, fmt.Errorf("%w: int wants a number, got %T", ErrArgumentType, v)
	}
}
