package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bitfsorg/cashbench/config"
	"github.com/bitfsorg/cashbench/contract"
	"github.com/bitfsorg/cashbench/store"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Manage compiled contract artifacts",
}

// openStore opens only the database, for commands that never touch the chain.
func openStore() (*store.BoltStore, error) {
	return store.OpenBoltStore(config.DBPath(cfg.DataDir))
}

var artifactAddCmd = &cobra.Command{
	Use:   "add <artifact.json>",
	Short: "Import a cashc artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := contract.LoadArtifact(args[0])
		if err != nil {
			return err
		}
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PutArtifact(a); err != nil {
			return err
		}
		fmt.Println(success(fmt.Sprintf("artifact %s imported (%d functions)", a.ContractName, len(a.ABI))))
		return nil
	},
}

var artifactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported artifacts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		names, err := db.ListArtifacts()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println(meta("no artifacts; import one with `cashbench artifact add`"))
			return nil
		}
		rows := make([][]string, 0, len(names))
		for _, n := range names {
			a, err := db.GetArtifact(n)
			if err != nil {
				return err
			}
			rows = append(rows, []string{n, signature(a.ConstructorInputs), functionNames(a)})
		}
		fmt.Print(table([]string{"NAME", "CONSTRUCTOR", "FUNCTIONS"}, rows))
		return nil
	},
}

var artifactShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show an artifact's ABI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		a, err := db.GetArtifact(args[0])
		if err != nil {
			return err
		}
		pairs := [][2]string{
			{"Constructor", "(" + signature(a.ConstructorInputs) + ")"},
		}
		for _, fn := range a.ABI {
			pairs = append(pairs, [2]string{fn.Name, "(" + signature(fn.Inputs) + ")"})
		}
		if a.Compiler.Name != "" {
			pairs = append(pairs, [2]string{"Compiler", a.Compiler.Name + " " + a.Compiler.Version})
		}
		fmt.Println(keyValueBlock(a.ContractName, pairs))
		return nil
	},
}

var artifactRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove an artifact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.DeleteArtifact(args[0]); err != nil {
			return err
		}
		fmt.Println(success("removed " + args[0]))
		return nil
	},
}

func signature(params []contract.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

func functionNames(a *contract.Artifact) string {
	names := make([]string, len(a.ABI))
	for i, fn := range a.ABI {
		names[i] = fn.Name
	}
	return strings.Join(names, ", ")
}

func init() {
	artifactCmd.AddCommand(artifactAddCmd, artifactListCmd, artifactShowCmd, artifactRmCmd)
}
