package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/cashbench/wallet"
	"github.com/bitfsorg/cashbench/workbench"
)

var (
	walletWords    int
	walletBalances bool
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the wallets derived from the mnemonic",
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a mnemonic and show the wallets it derives",
	Long: `Generate a BIP39 mnemonic and print it with the address of every
configured wallet label. The mnemonic is not saved: export it as
$CASHBENCH_MNEMONIC to use the wallets.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bits := wallet.Mnemonic12Words
		if walletWords == 24 {
			bits = wallet.Mnemonic24Words
		} else if walletWords != 12 {
			return fmt.Errorf("--words must be 12 or 24")
		}
		phrase, err := wallet.GenerateMnemonic(bits)
		if err != nil {
			return err
		}
		net, err := wallet.GetNetwork(cfg.Network)
		if err != nil {
			return err
		}
		ids, err := workbench.DeriveWallets(phrase, cfg.Wallets, net)
		if err != nil {
			return err
		}

		pairs := [][2]string{{"Mnemonic", phrase}}
		for _, id := range ids {
			a, err := id.AddressOn(net)
			if err != nil {
				return err
			}
			pairs = append(pairs, [2]string{id.Label, a})
		}
		fmt.Println(keyValueBlock("New wallets ("+net.Name+")", pairs))
		fmt.Println(warn("write the mnemonic down; cashbench does not store it"))
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallet labels and addresses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, db, err := openWorkbench()
		if err != nil {
			return err
		}
		defer db.Close()

		if len(wb.Wallets()) == 0 {
			fmt.Println(warn("no mnemonic configured; set $" + mnemonicEnv))
			return nil
		}
		headers := []string{"LABEL", "ADDRESS"}
		if walletBalances {
			headers = append(headers, "SATS")
		}
		var rows [][]string
		for _, id := range wb.Wallets() {
			a, err := id.AddressOn(wb.Network())
			if err != nil {
				return err
			}
			row := []string{id.Label, a}
			if walletBalances {
				utxos, err := wb.Chain().ListUnspent(cmd.Context(), a)
				if err != nil {
					return err
				}
				var total uint64
				for _, u := range utxos {
					total += u.Amount
				}
				row = append(row, strconv.FormatUint(total, 10))
			}
			rows = append(rows, row)
		}
		fmt.Print(table(headers, rows))
		return nil
	},
}

func init() {
	walletNewCmd.Flags().IntVar(&walletWords, "words", 12, "mnemonic length, 12 or 24")
	walletListCmd.Flags().BoolVar(&walletBalances, "balance", false, "query each wallet's balance")
	walletCmd.AddCommand(walletNewCmd, walletListCmd)
}
