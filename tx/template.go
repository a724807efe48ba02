package tx

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/go-sdk/transaction"
	sighash "github.com/bsv-blockchain/go-sdk/transaction/sighash"
)

// SignatureTemplate is a signing capability bound to one private key. It is
// handed to the transaction builder in place of the key itself.
type SignatureTemplate struct {
	key  *ec.PrivateKey
	flag sighash.Flag
}

// NewSignatureTemplate binds a template to key, signing with SIGHASH_ALL|FORKID.
func NewSignatureTemplate(key *ec.PrivateKey) (*SignatureTemplate, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	return &SignatureTemplate{key: key, flag: sighash.AllForkID}, nil
}

// SignatureTemplateFromWIF parses a WIF-encoded private key.
func SignatureTemplateFromWIF(wif string) (*SignatureTemplate, error) {
	key, err := ec.PrivateKeyFromWif(wif)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewSignatureTemplate(key)
}

// SignatureTemplateFromHex parses a 32-byte hex private key.
func SignatureTemplateFromHex(keyHex string) (*SignatureTemplate, error) {
	key, err := ec.PrivateKeyFromHex(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewSignatureTemplate(key)
}

// PublicKey returns the compressed public key bytes.
func (s *SignatureTemplate) PublicKey() []byte {
	return s.key.PubKey().Compressed()
}

// PublicKeyHash returns hash160 of the compressed public key.
func (s *SignatureTemplate) PublicKeyHash() []byte {
	return Hash160(s.PublicKey())
}

// LockingScript returns the P2PKH locking script for the template's key.
func (s *SignatureTemplate) LockingScript() ([]byte, error) {
	return BuildP2PKHScript(s.PublicKeyHash())
}

// Sign returns the DER signature with the sighash flag appended for input idx.
// The input's source output must already be attached; its locking script is
// used as the script code.
func (s *SignatureTemplate) Sign(t *transaction.Transaction, idx int) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	if idx < 0 || idx >= len(t.Inputs) {
		return nil, fmt.Errorf("%w: input %d out of range", ErrSigningFailed, idx)
	}
	hash, err := t.CalcInputSignatureHash(uint32(idx), s.flag)
	if err != nil {
		return nil, fmt.Errorf("%w: sighash for input %d: %w", ErrSigningFailed, idx, err)
	}
	sig, err := s.key.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("%w: input %d: %w", ErrSigningFailed, idx, err)
	}
	der := sig.Serialize()
	out := make([]byte, 0, len(der)+1)
	out = append(out, der...)
	return append(out, byte(s.flag)), nil
}

// Unlocker returns the P2PKH unlocker for inputs paying to this key.
func (s *SignatureTemplate) Unlocker() Unlocker {
	return &p2pkhUnlocker{tmpl: s}
}

type p2pkhUnlocker struct {
	tmpl *SignatureTemplate
}

func (u *p2pkhUnlocker) EstimateLength() int {
	return P2PKHUnlockLen
}

func (u *p2pkhUnlocker) Unlock(t *transaction.Transaction, idx int) ([]byte, error) {
	sig, err := u.tmpl.Sign(t, idx)
	if err != nil {
		return nil, err
	}
	s := PushData(sig)
	return append(s, PushData(u.tmpl.PublicKey())...), nil
}
