package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Bind artifacts to constructor arguments and inspect them",
}

var contractBindCmd = &cobra.Command{
	Use:   "bind <name> <artifact> [constructor args...]",
	Short: "Instantiate an artifact under a name",
	Long: `Instantiate an artifact with constructor arguments and save the result
under <name> for the current network.

Arguments are read by parameter type: int as decimal, bool as "true",
bytes20 as a cashaddr (prefix optional), pubkey and bytes as hex.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, db, err := openWorkbench()
		if err != nil {
			return err
		}
		defer db.Close()
		b, _, err := wb.Bind(args[0], args[1], args[2:])
		if err != nil {
			return err
		}
		fmt.Println(success("bound " + b.Name))
		fmt.Println(keyValueBlock(b.Name, [][2]string{
			{"Artifact", b.Artifact},
			{"Network", b.Network},
			{"Address", addr(b.Address)},
		}))
		return nil
	},
}

var contractListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bound contracts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		bindings, err := db.ListBindings()
		if err != nil {
			return err
		}
		if len(bindings) == 0 {
			fmt.Println(meta("no contracts; bind one with `cashbench contract bind`"))
			return nil
		}
		rows := make([][]string, len(bindings))
		for i, b := range bindings {
			rows[i] = []string{b.Name, b.Artifact, b.Network, b.Address}
		}
		fmt.Print(table([]string{"NAME", "ARTIFACT", "NETWORK", "ADDRESS"}, rows))
		return nil
	},
}

var contractShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a contract's balance and the named UTXOs available to spend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, db, err := openWorkbench()
		if err != nil {
			return err
		}
		defer db.Close()
		c, err := wb.Contract(args[0])
		if err != nil {
			return err
		}
		snap, err := wb.Snapshot(cmd.Context(), c)
		if err != nil {
			return err
		}

		var balance uint64
		rows := make([][]string, 0, snap.Len())
		for _, e := range snap.Entries() {
			if e.WalletIndex < 0 {
				balance += e.Amount
			}
			rows = append(rows, []string{e.Name, e.Outpoint(), strconv.FormatUint(e.Amount, 10), e.Unlock.String()})
		}
		fmt.Println(keyValueBlock(args[0], [][2]string{
			{"Contract", c.Name()},
			{"Address", addr(c.Address())},
			{"Balance", sats(balance)},
		}))
		if len(rows) > 0 {
			fmt.Print(table([]string{"NAME", "OUTPOINT", "SATS", "UNLOCK"}, rows))
		}
		return nil
	},
}

var contractRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Forget a bound contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.DeleteBinding(args[0]); err != nil {
			return err
		}
		fmt.Println(success("removed " + args[0]))
		return nil
	},
}

func init() {
	contractCmd.AddCommand(contractBindCmd, contractListCmd, contractShowCmd, contractRmCmd)
}
