package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/cashbench/contract"
)

func TestParseRecipients(t *testing.T) {
	got, err := parseRecipients([]string{"bchreg:qpm2qsznhks23z7629mms6s4cwef74vcwvhanqgjxu:5000", "qpm2qsznhks23z7629mms6s4cwef74vcwvy22gdx6a:1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bchreg:qpm2qsznhks23z7629mms6s4cwef74vcwvhanqgjxu", got[0].To)
	assert.Equal(t, uint64(5000), got[0].Amount)
	assert.Equal(t, uint64(1), got[1].Amount)

	for _, bad := range []string{"noamount", "addr:", ":100", "addr:-5", "addr:1.5"} {
		_, err := parseRecipients([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestSats(t *testing.T) {
	assert.Equal(t, "150000000 sat (1.50000000 BCH)", sats(150_000_000))
	assert.Equal(t, "546 sat (0.00000546 BCH)", sats(546))
}

func TestTable_PadsColumns(t *testing.T) {
	out := table([]string{"A", "B"}, [][]string{{"long-value", "x"}, {"s"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[2], "long-value  x"))
	assert.True(t, strings.HasPrefix(lines[3], "s           "))
}

func TestSignature(t *testing.T) {
	params := []contract.Param{{Name: "owner", Type: "pubkey"}, {Name: "timeout", Type: "int"}}
	assert.Equal(t, "pubkey owner, int timeout", signature(params))
	assert.Equal(t, "", signature(nil))
}

func TestShortAddr(t *testing.T) {
	assert.Equal(t, "short", shortAddr("short"))
	long := "bchtest:qpm2qsznhks23z7629mms6s4cwef74vcwvn0h829pq"
	assert.Equal(t, "bchtest:qpm2qszn…h829pq", shortAddr(long))
}
