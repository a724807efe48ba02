package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/cashbench/compose"
	"github.com/bitfsorg/cashbench/tx"
	"github.com/bitfsorg/cashbench/workbench"
)

var (
	callInputs   []string
	callOutputs  []string
	callNoChange bool
	callDryRun   bool
)

var callCmd = &cobra.Command{
	Use:   "call <contract> <function> [args...]",
	Short: "Call a contract function in a new transaction",
	Long: `Compose, sign and broadcast a transaction spending a bound contract.

A sig argument may be a wallet label, a WIF or a hex private key. An int
argument of "-" is left unset and refused.

Without --input, contract UTXOs are selected largest first. With --input,
exactly the named UTXOs are spent, in order; names are shown by
` + "`cashbench contract show`" + `.

Examples:
  cashbench call escrow spend alice --to bchreg:qq...:5000
  cashbench call escrow spend alice --input "Escrow UTXO 0" --input "bob UTXO 1" \
      --to bchreg:qq...:12000 --no-change`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputs, err := parseRecipients(callOutputs)
		if err != nil {
			return err
		}
		wb, db, err := openWorkbench()
		if err != nil {
			return err
		}
		defer db.Close()

		req := workbench.CallRequest{
			Binding:  args[0],
			Function: args[1],
			Args:     args[2:],
			Inputs:   callInputs,
			Outputs:  outputs,
			NoChange: callNoChange,
		}
		if callDryRun {
			draft, err := wb.Compose(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Println(renderDraft(draft))
			fmt.Println(draft.Tx.Hex())
			return nil
		}

		res, err := wb.Send(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Println(renderDraft(res.Draft))
		fmt.Println(success("sent " + res.TxID))
		if res.ExplorerURL != "" {
			fmt.Println(meta(res.ExplorerURL))
		}
		return nil
	},
}

func renderDraft(d *compose.Draft) string {
	pairs := [][2]string{{"Function", d.Contract + "." + d.Function}}
	for _, in := range d.Inputs {
		v := strconv.FormatUint(in.Amount, 10)
		if in.Signer != "" {
			v += " signed by " + in.Signer
		}
		pairs = append(pairs, [2]string{in.Name, v})
	}
	for _, out := range d.Outputs {
		pairs = append(pairs, [2]string{"→ " + shortAddr(out.To), strconv.FormatUint(out.Amount, 10)})
	}
	if d.ChangeOutput != nil {
		pairs = append(pairs, [2]string{"Change", strconv.FormatUint(d.ChangeOutput.Amount, 10)})
	}
	pairs = append(pairs, [2]string{"Fee", sats(d.Fee)})
	return keyValueBlock("Transaction", pairs)
}

// parseRecipients reads "address:amount" pairs. The amount follows the last
// colon so prefixed cashaddrs parse.
func parseRecipients(specs []string) ([]tx.Recipient, error) {
	out := make([]tx.Recipient, 0, len(specs))
	for _, s := range specs {
		i := strings.LastIndex(s, ":")
		if i <= 0 || i == len(s)-1 {
			return nil, fmt.Errorf("--to %q: want address:amount", s)
		}
		amount, err := strconv.ParseUint(s[i+1:], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("--to %q: amount: %w", s, err)
		}
		out = append(out, tx.Recipient{To: s[:i], Amount: amount})
	}
	return out, nil
}

func shortAddr(a string) string {
	if len(a) <= 24 {
		return a
	}
	return a[:16] + "…" + a[len(a)-6:]
}

func init() {
	callCmd.Flags().StringArrayVar(&callInputs, "input", nil, "spend this named UTXO (repeatable)")
	callCmd.Flags().StringArrayVar(&callOutputs, "to", nil, "pay address:amount in satoshis (repeatable)")
	callCmd.Flags().BoolVar(&callNoChange, "no-change", false, "leave the remainder to the miner")
	callCmd.Flags().BoolVar(&callDryRun, "dry-run", false, "compose and print without broadcasting")
}
