package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/cashbench/network"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/wallet"
)

func chainWith(height uint64, utxos ...*network.UTXO) *network.MockBlockchainService {
	return &network.MockBlockchainService{
		ListUnspentFn: func(context.Context, string) ([]*network.UTXO, error) {
			return utxos, nil
		},
		GetBestBlockHeightFn: func(context.Context) (uint64, error) {
			return height, nil
		},
	}
}

func TestFunction_Errors(t *testing.T) {
	tmpl := testTemplate(t)
	c := newP2PKHContract(t, tmpl, nil)

	_, err := c.Function("missing")
	assert.ErrorIs(t, err, ErrUnknownFunction)
	_, err = c.Function("spend", tmpl.PublicKey())
	assert.ErrorIs(t, err, ErrArgumentCount)
	_, err = c.Function("spend", []byte{1, 2}, tmpl)
	assert.ErrorIs(t, err, ErrArgumentType)
}

func TestCall_ExplicitInputUnlocks(t *testing.T) {
	tmpl := testTemplate(t)
	c := newP2PKHContract(t, tmpl, chainWith(0))

	call, err := c.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	built, err := call.
		From(tx.UTXO{TxID: testTxID(3), Vout: 0, Amount: 100000}).
		To(tx.Recipient{To: payTo(t), Amount: 20000}).
		WithTime(0).
		Build(context.Background())
	require.NoError(t, err)

	require.Len(t, built.Tx.Inputs, 1)
	require.Len(t, built.Tx.Outputs, 2)
	assert.Equal(t, uint64(20000), built.Tx.Outputs[0].Satoshis)
	assert.Equal(t, 1, built.ChangeVout)
	assert.Equal(t, c.LockingScript(), []byte(*built.Tx.Outputs[1].LockingScript))
	assert.Equal(t, uint64(100000), 20000+built.Change+built.Fee)

	// sig, pk, redeem: arguments last-first, no selector for one function.
	pushes := splitPushes(t, []byte(*built.Tx.Inputs[0].UnlockingScript))
	require.Len(t, pushes, 3)
	assert.Equal(t, tmpl.PublicKey(), pushes[1])
	assert.Equal(t, c.RedeemScript(), pushes[2])
	verifySig(t, built.Tx, 0, pushes[0], tmpl.PublicKey())

	assert.Equal(t, built.Tx.TxID().String(), built.TxID())
	assert.NotEmpty(t, built.Hex())
}

func TestCall_SelectorForMultiFunctionContract(t *testing.T) {
	a, err := LoadArtifact("testdata/transfer_with_timeout.json")
	require.NoError(t, err)
	sender, recipient := testTemplate(t), testTemplate(t)
	c, err := New(a, []any{sender.PublicKey(), recipient.PublicKey(), big.NewInt(100)}, chainWith(0), &wallet.RegTest)
	require.NoError(t, err)

	call, err := c.Function("timeout", sender)
	require.NoError(t, err)
	built, err := call.
		From(tx.UTXO{TxID: testTxID(4), Vout: 2, Amount: 50000}).
		To(tx.Recipient{To: payTo(t), Amount: 10000}).
		WithTime(200).
		Build(context.Background())
	require.NoError(t, err)

	pushes := splitPushes(t, []byte(*built.Tx.Inputs[0].UnlockingScript))
	require.Len(t, pushes, 3)
	assert.Equal(t, []byte{0x01}, pushes[1]) // selector for "timeout"
	assert.Equal(t, c.RedeemScript(), pushes[2])
	verifySig(t, built.Tx, 0, pushes[0], sender.PublicKey())

	assert.Equal(t, uint32(200), built.Tx.LockTime)
	assert.Equal(t, uint32(transaction.DefaultSequenceNumber-1), built.Tx.Inputs[0].SequenceNumber)

	transfer, err := c.Function("transfer", recipient)
	require.NoError(t, err)
	built, err = transfer.
		From(tx.UTXO{TxID: testTxID(4), Vout: 2, Amount: 50000}).
		To(tx.Recipient{To: payTo(t), Amount: 10000}).
		Build(context.Background())
	require.NoError(t, err)
	pushes = splitPushes(t, []byte(*built.Tx.Inputs[0].UnlockingScript))
	assert.Equal(t, []byte{}, pushes[1]) // selector 0 is OP_0
}

func TestCall_AutoSelectsLargestFirst(t *testing.T) {
	tmpl := testTemplate(t)
	chain := chainWith(812345,
		&network.UTXO{TxID: testTxID(5), Vout: 0, Amount: 1000},
		&network.UTXO{TxID: testTxID(6), Vout: 0, Amount: 60000},
		&network.UTXO{TxID: testTxID(7), Vout: 0, Amount: 3000},
	)
	c := newP2PKHContract(t, tmpl, chain)

	call, err := c.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	built, err := call.To(tx.Recipient{To: payTo(t), Amount: 10000}).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, built.Inputs, 1)
	assert.Equal(t, uint64(60000), built.Inputs[0].Amount)
	assert.Equal(t, uint32(812345), built.Tx.LockTime)
}

func TestCall_AutoSelectAddsInputsUntilFunded(t *testing.T) {
	tmpl := testTemplate(t)
	chain := chainWith(1,
		&network.UTXO{TxID: testTxID(8), Vout: 0, Amount: 6000},
		&network.UTXO{TxID: testTxID(9), Vout: 0, Amount: 7000},
	)
	c := newP2PKHContract(t, tmpl, chain)

	call, err := c.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	built, err := call.To(tx.Recipient{To: payTo(t), Amount: 10000}).Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, built.Inputs, 2)
}

func TestCall_AutoSelectFailures(t *testing.T) {
	tmpl := testTemplate(t)

	empty := newP2PKHContract(t, tmpl, chainWith(1))
	call, err := empty.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	_, err = call.To(tx.Recipient{To: payTo(t), Amount: 10000}).Build(context.Background())
	assert.ErrorIs(t, err, ErrNoUTXOs)

	poor := newP2PKHContract(t, tmpl, chainWith(1, &network.UTXO{TxID: testTxID(10), Amount: 5000}))
	call, err = poor.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	_, err = call.To(tx.Recipient{To: payTo(t), Amount: 10000}).Build(context.Background())
	assert.ErrorIs(t, err, tx.ErrInsufficientFunds)
}

func TestCall_WithoutChange(t *testing.T) {
	tmpl := testTemplate(t)
	c := newP2PKHContract(t, tmpl, chainWith(0))

	call, err := c.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	built, err := call.
		From(tx.UTXO{TxID: testTxID(11), Amount: 30000}).
		To(tx.Recipient{To: payTo(t), Amount: 10000}).
		WithoutChange().
		Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, built.Tx.Outputs, 1)
	assert.Equal(t, -1, built.ChangeVout)
	assert.Equal(t, uint64(20000), built.Fee)
}

func TestCall_MixedInputsContractFirst(t *testing.T) {
	owner, funder := testTemplate(t), testTemplate(t)
	c := newP2PKHContract(t, owner, chainWith(0,
		&network.UTXO{TxID: testTxID(12), Amount: 2000},
	))

	call, err := c.Function("spend", owner.PublicKey(), owner)
	require.NoError(t, err)
	_, err = call.FromP2PKH(tx.UTXO{TxID: testTxID(13), Vout: 1, Amount: 40000}, funder)
	require.NoError(t, err)
	built, err := call.To(tx.Recipient{To: payTo(t), Amount: 30000}).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, built.Inputs, 2)
	assert.Equal(t, testTxID(12), built.Inputs[0].TxID)
	assert.Equal(t, testTxID(13), built.Inputs[1].TxID)

	// The P2PKH input carries sig + pubkey for the funder key.
	pushes := splitPushes(t, []byte(*built.Tx.Inputs[1].UnlockingScript))
	require.Len(t, pushes, 2)
	assert.Equal(t, funder.PublicKey(), pushes[1])
	verifySig(t, built.Tx, 1, pushes[0], funder.PublicKey())

	_, err = call.FromP2PKH(tx.UTXO{TxID: testTxID(14)}, nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestCall_InvalidRecipient(t *testing.T) {
	tmpl := testTemplate(t)
	c := newP2PKHContract(t, tmpl, chainWith(0))
	call, err := c.Function("spend", tmpl.PublicKey(), tmpl)
	require.NoError(t, err)
	_, err = call.
		From(tx.UTXO{TxID: testTxID(15), Amount: 30000}).
		To(tx.Recipient{To: "not-an-address", Amount: 1000}).
		Build(context.Background())
	assert.ErrorIs(t, err, tx.ErrInvalidAddress)
}

func TestCall_ManualSpendsOnlyGivenInputs(t *testing.T) {
	owner, funder := testTemplate(t), testTemplate(t)
	chain := chainWith(0, &network.UTXO{TxID: testTxID(15), Amount: 50000})
	lookups := 0
	list := chain.ListUnspentFn
	chain.ListUnspentFn = func(ctx context.Context, addr string) ([]*network.UTXO, error) {
		lookups++
		return list(ctx, addr)
	}
	c := newP2PKHContract(t, owner, chain)

	// Keyed inputs alone cannot run the contract function.
	call, err := c.Function("spend", owner.PublicKey(), owner)
	require.NoError(t, err)
	_, err = call.FromP2PKH(tx.UTXO{TxID: testTxID(16), Amount: 8000}, funder)
	require.NoError(t, err)
	_, err = call.Manual().
		To(tx.Recipient{To: payTo(t), Amount: 6000}).
		WithoutChange().
		Build(context.Background())
	assert.ErrorIs(t, err, ErrNoContractInput)
	assert.Zero(t, lookups, "manual calls never list contract UTXOs")

	call, err = c.Function("spend", owner.PublicKey(), owner)
	require.NoError(t, err)
	built, err := call.Manual().
		From(tx.UTXO{TxID: testTxID(17), Amount: 3000}).
		To(tx.Recipient{To: payTo(t), Amount: 2000}).
		Build(context.Background())
	require.NoError(t, err)
	require.Len(t, built.Inputs, 1)
	assert.Equal(t, testTxID(17), built.Inputs[0].TxID)
	assert.Zero(t, lookups)
}
