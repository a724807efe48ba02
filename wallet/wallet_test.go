package wallet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/cashbench/cashaddr"
	"github.com/bitfsorg/cashbench/tx"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// --- Mnemonic tests ---

func TestGenerateMnemonic_12Words(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic12Words)
	require.NoError(t, err)

	words := strings.Fields(mnemonic)
	assert.Len(t, words, 12, "12-word mnemonic should have 12 words")
	assert.True(t, ValidateMnemonic(mnemonic), "generated mnemonic should be valid")
}

func TestGenerateMnemonic_24Words(t *testing.T) {
	mnemonic, err := GenerateMnemonic(Mnemonic24Words)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24)
}

func TestGenerateMnemonic_InvalidEntropy(t *testing.T) {
	_, err := GenerateMnemonic(64)
	assert.ErrorIs(t, err, ErrInvalidEntropy)

	_, err = GenerateMnemonic(192)
	assert.ErrorIs(t, err, ErrInvalidEntropy)
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12-word", testMnemonic, true},
		{"invalid words", "foo bar baz qux quux corge grault garply waldo fred plugh xyzzy", false},
		{"empty", "", false},
		{"partial", "abandon abandon", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateMnemonic(tt.mnemonic))
		})
	}
}

func TestSeedFromMnemonic(t *testing.T) {
	s1, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Len(t, s1, 64)

	s2, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	s3, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s3)

	_, err = SeedFromMnemonic("not a mnemonic", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

// --- HD derivation tests ---

func newTestWallet(t *testing.T) *Wallet {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	w, err := NewWallet(seed, &MainNet)
	require.NoError(t, err)
	return w
}

func TestNewWallet(t *testing.T) {
	w := newTestWallet(t)
	assert.Equal(t, "mainnet", w.Network().Name)

	_, err := NewWallet(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestNewWallet_NilNetwork(t *testing.T) {
	seed, err := SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	w, err := NewWallet(seed, nil)
	require.NoError(t, err)
	assert.Equal(t, "mainnet", w.Network().Name, "nil network should default to mainnet")
}

func TestDeriveKey(t *testing.T) {
	w := newTestWallet(t)

	kp, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/145'/0'/0/0", kp.Path)

	kp2, err := w.DeriveKey(0, InternalChain, 3)
	require.NoError(t, err)
	assert.Equal(t, "m/44'/145'/0'/1/3", kp2.Path)
	assert.NotEqual(t, kp.PublicKey.Compressed(), kp2.PublicKey.Compressed())

	again, err := w.DeriveKey(0, ExternalChain, 0)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey.Compressed(), again.PublicKey.Compressed())
}

func TestDeriveKey_Errors(t *testing.T) {
	w := newTestWallet(t)

	_, err := w.DeriveKey(0, ExternalChain, MaxIndex+1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = w.DeriveKey(MaxIndex+1, ExternalChain, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = w.DeriveKey(0, 2, 0)
	assert.ErrorIs(t, err, ErrDerivationFailed)
}

func TestDeriveIdentity(t *testing.T) {
	w := newTestWallet(t)

	alice, err := w.DeriveIdentity("alice", 0)
	require.NoError(t, err)
	bob, err := w.DeriveIdentity("bob", 1)
	require.NoError(t, err)

	assert.Equal(t, "alice", alice.Label)
	assert.NotEqual(t, alice.Address, bob.Address)
	assert.True(t, strings.HasPrefix(alice.Address, "bitcoincash:q"))
}

// --- KeyIdentity tests ---

func TestNewKeyIdentity(t *testing.T) {
	key, err := ec.NewPrivateKey()
	require.NoError(t, err)

	id, err := NewKeyIdentity("w1", key)
	require.NoError(t, err)

	assert.Equal(t, tx.Hash160(key.PubKey().Compressed()), id.PublicKeyHash)
	assert.True(t, strings.HasPrefix(id.Address, "bitcoincash:"))
	assert.True(t, strings.HasPrefix(id.TestnetAddress, "bchtest:"))

	decoded, err := cashaddr.Decode(id.Address)
	require.NoError(t, err)
	assert.Equal(t, cashaddr.P2PKH, decoded.Type)
	assert.Equal(t, id.PublicKeyHash, decoded.Hash)

	_, err = NewKeyIdentity("nil", nil)
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeyIdentity_WIFRoundTrip(t *testing.T) {
	id, err := GenerateKeyIdentity("w")
	require.NoError(t, err)

	restored, err := KeyIdentityFromWIF("w", id.WIF())
	require.NoError(t, err)
	assert.Equal(t, id.Address, restored.Address)

	_, err = KeyIdentityFromWIF("w", "bogus")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestKeyIdentity_AddressOn(t *testing.T) {
	id, err := GenerateKeyIdentity("w")
	require.NoError(t, err)

	addr, err := id.AddressOn(&RegTest)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "bchreg:"))

	addr, err = id.AddressOn(nil)
	require.NoError(t, err)
	assert.Equal(t, id.Address, addr)
}

func TestKeyIdentity_SignatureTemplate(t *testing.T) {
	id, err := GenerateKeyIdentity("w")
	require.NoError(t, err)

	tmpl, err := id.SignatureTemplate()
	require.NoError(t, err)
	assert.Equal(t, id.PublicKeyHash, tmpl.PublicKeyHash())

	_, err = (&KeyIdentity{Label: "empty"}).SignatureTemplate()
	assert.ErrorIs(t, err, ErrInvalidKey)
}

// --- Network tests ---

func TestGetNetwork(t *testing.T) {
	tests := []struct {
		name    string
		netName string
		prefix  string
		wantErr bool
	}{
		{"mainnet", "mainnet", "bitcoincash", false},
		{"testnet", "testnet", "bchtest", false},
		{"chipnet", "chipnet", "bchtest", false},
		{"regtest", "regtest", "bchreg", false},
		{"unknown", "foonet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := GetNetwork(tt.netName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNetwork)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.netName, net.Name)
			assert.Equal(t, tt.prefix, net.CashAddrPrefix)
		})
	}
}

func TestNetworkConfig_TxURL(t *testing.T) {
	assert.Equal(t, "https://explorer.bitcoin.com/bch/tx/abc", MainNet.TxURL("abc"))
	assert.Equal(t, "", RegTest.TxURL("abc"))
	var nilNet *NetworkConfig
	assert.Equal(t, "", nilNet.TxURL("abc"))
}

func TestLoadCustomNetwork(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"name":"devnet","cashaddr_prefix":"bchreg","explorer":"http://localhost:3000"}`), 0o600))
	net, err := LoadCustomNetwork(good)
	require.NoError(t, err)
	assert.Equal(t, "devnet", net.Name)
	assert.Equal(t, "http://localhost:3000/tx/ff", net.TxURL("ff"))

	_, err = LoadCustomNetwork(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read network config")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = LoadCustomNetwork(bad)
	assert.ErrorContains(t, err, "failed to parse network config")

	noName := filepath.Join(dir, "noname.json")
	require.NoError(t, os.WriteFile(noName, []byte(`{"cashaddr_prefix":"bchreg"}`), 0o600))
	_, err = LoadCustomNetwork(noName)
	assert.ErrorContains(t, err, "must have a name")

	noPrefix := filepath.Join(dir, "noprefix.json")
	require.NoError(t, os.WriteFile(noPrefix, []byte(`{"name":"x"}`), 0o600))
	_, err = LoadCustomNetwork(noPrefix)
	assert.ErrorContains(t, err, "cashaddr prefix")
}
