package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var heightCmd = &cobra.Command{
	Use:   "height",
	Short: "Show the best block height",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, err := openChain()
		if err != nil {
			return err
		}
		h, err := chain.GetBestBlockHeight(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(keyValueBlock("Chain", [][2]string{
			{"Network", cfg.Network},
			{"Height", strconv.FormatUint(h, 10)},
		}))
		return nil
	},
}

var utxosCmd = &cobra.Command{
	Use:   "utxos <address>",
	Short: "List the unspent outputs of an address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, err := openChain()
		if err != nil {
			return err
		}
		utxos, err := chain.ListUnspent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(utxos) == 0 {
			fmt.Println(meta("no unspent outputs for " + args[0]))
			return nil
		}
		var total uint64
		rows := make([][]string, len(utxos))
		for i, u := range utxos {
			total += u.Amount
			rows[i] = []string{fmt.Sprintf("%s:%d", u.TxID, u.Vout), strconv.FormatUint(u.Amount, 10),
				strconv.FormatInt(u.Confirmations, 10)}
		}
		fmt.Print(table([]string{"OUTPOINT", "SATS", "CONF"}, rows))
		fmt.Println(meta("total " + sats(total)))
		return nil
	},
}

var rawTxCmd = &cobra.Command{
	Use:   "rawtx <txid>",
	Short: "Print a transaction as hex",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, err := openChain()
		if err != nil {
			return err
		}
		raw, err := chain.GetRawTx(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(hex.EncodeToString(raw))
		return nil
	},
}
